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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var _ = Describe("Finalizer reconciler", func() {
	const finalizer = "sites.edgesite.io/staticsite-finalizer"

	var (
		ctx        context.Context
		site       *sitesv1alpha1.StaticSite
		c          client.Client
		reconciler *FinalizerReconciler
	)

	BeforeEach(func() {
		ctx = context.Background()
		c = newTestClient(newTestSite())
		site = &sitesv1alpha1.StaticSite{}
		Expect(c.Get(ctx, client.ObjectKey{
			Name: "example", Namespace: "sites"}, site)).To(Succeed())
		reconciler = &FinalizerReconciler{Client: c, Finalizer: finalizer}
	})

	It("adds the finalizer to a new site", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())

		fetched := &sitesv1alpha1.StaticSite{}
		Expect(c.Get(ctx, client.ObjectKeyFromObject(site), fetched)).To(Succeed())
		Expect(fetched.Finalizers).To(ContainElement(finalizer))
	})

	It("does not update a site that already has the finalizer", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())
		version := site.ResourceVersion

		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())
		Expect(site.ResourceVersion).To(Equal(version))
	})

	It("removes the finalizer on teardown", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())
		Expect(reconciler.Teardown(ctx, site)).To(Succeed())

		fetched := &sitesv1alpha1.StaticSite{}
		Expect(c.Get(ctx, client.ObjectKeyFromObject(site), fetched)).To(Succeed())
		Expect(fetched.Finalizers).NotTo(ContainElement(finalizer))
	})
})
