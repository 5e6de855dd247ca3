/*
Copyright 2025 Edgesite Labs.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"context"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// FinalizerReconciler keeps the site finalizer in place so cloud resources
// are torn down before the object disappears. It is first in the reconciler
// order, which makes it the last teardown step.
type FinalizerReconciler struct {
	client.Client
	Finalizer string
}

func (r *FinalizerReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(site, r.Finalizer) {
		controllerutil.AddFinalizer(site, r.Finalizer)
		if err := r.Update(ctx, site); err != nil {
			return err
		}
		log.Info("Added finalizer to site", "site", site.Name)
	}

	return nil
}

func (r *FinalizerReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	controllerutil.RemoveFinalizer(site, r.Finalizer)
	if err := r.Update(ctx, site); err != nil {
		return err
	}

	return nil
}
