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
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// OutputsReconciler publishes the provisioned endpoints into a ConfigMap so
// in-cluster consumers (deploy jobs, dashboards) can find them.
type OutputsReconciler struct {
	Client
}

func outputsName(site *sitesv1alpha1.StaticSite) string {
	return site.Name + "-endpoints"
}

func (r *OutputsReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)

	// Fetch the outputs ConfigMap
	outputs := &corev1.ConfigMap{}

	if err := r.Get(ctx, client.ObjectKey{
		Name:      outputsName(site),
		Namespace: site.Namespace}, outputs); err != nil {
		if errors.IsNotFound(err) {
			// Create outputs resource
			outputs.Name = outputsName(site)
			outputs.Namespace = site.Namespace
			if err = client.IgnoreAlreadyExists(
				r.Create(ctx, outputs)); err == nil {
				log.Info("Outputs resource created", "outputs", outputs.Name)
			} else {
				log.Error(err, "Failed to create outputs resource",
					"site", site.Name)
				return err
			}
		} else {
			log.Error(err, "Failed to get outputs resource", "site", site.Name)
			return err
		}
	}

	data := r.createOutputsData(site)
	if !mapsEqual(outputs.Data, data) {
		// Outputs out of date, update them
		outputs.Data = data
		if err := r.Update(ctx, outputs); err == nil {
			log.Info("Outputs resource updated", "outputs", outputs.Name)
		} else {
			log.Error(err, "Failed to update outputs resource",
				"site", site.Name)
			return err
		}
	}

	return nil
}

func (r *OutputsReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	outputs := &corev1.ConfigMap{}
	if err := r.Get(ctx, client.ObjectKey{
		Name:      outputsName(site),
		Namespace: site.Namespace}, outputs); err != nil {
		if errors.IsNotFound(err) {
			return nil // Already deleted
		}
		return err
	}

	return r.DeleteResource(ctx, outputs)
}

func (r *OutputsReconciler) createOutputsData(
	site *sitesv1alpha1.StaticSite) map[string]string {

	aws := &site.Status.AWS

	data := map[string]string{
		"siteURL": "https://" + site.Spec.Domain,
	}
	if aws.Bucket.Name != "" {
		data["bucketName"] = aws.Bucket.Name
	}
	if aws.Bucket.WebsiteEndpoint != "" {
		data["websiteEndpoint"] = aws.Bucket.WebsiteEndpoint
	}
	if aws.Distribution.DomainName != "" {
		data["distributionDomain"] = aws.Distribution.DomainName
		data["distributionID"] = aws.Distribution.ID
	}
	if aws.Certificate.ARN != "" {
		data["certificateARN"] = aws.Certificate.ARN
	}
	if aws.DeployRole.ARN != "" {
		data["deployRoleARN"] = aws.DeployRole.ARN
	}
	return data
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || v != w {
			return false
		}
	}
	return true
}
