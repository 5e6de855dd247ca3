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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var _ = Describe("Config", func() {
	It("loads the controller configuration from YAML", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte(`
aws:
  accountID: "123456789012"
  region: eu-west-2
  templates: /etc/staticsite/templates
pulsar:
  url: pulsar://pulsar:6650
  topic: site-lifecycle
requeueSeconds: 15
`), 0o600)).To(Succeed())

		config := Config{}
		Expect(config.Load(path)).To(Succeed())
		Expect(config.AWS.AccountID).To(Equal("123456789012"))
		Expect(config.AWS.Region).To(Equal("eu-west-2"))
		Expect(config.AWS.Templates).To(Equal("/etc/staticsite/templates"))
		Expect(config.Pulsar.URL).To(Equal("pulsar://pulsar:6650"))
		Expect(config.Pulsar.Topic).To(Equal("site-lifecycle"))
		Expect(config.RequeueSeconds).To(Equal(15))
	})

	It("fails for a missing file", func() {
		config := Config{}
		Expect(config.Load("/no/such/config.yaml")).NotTo(Succeed())
	})
})

var _ = Describe("reverse", func() {
	It("reverses a slice without mutating it", func() {
		in := []int{1, 2, 3, 4}
		Expect(reverse(in)).To(Equal([]int{4, 3, 2, 1}))
		Expect(in).To(Equal([]int{1, 2, 3, 4}))
	})

	It("handles empty slices", func() {
		Expect(reverse([]int{})).To(BeEmpty())
	})
})

var _ = Describe("StaticSite controller", func() {
	var (
		ctx        context.Context
		site       *sitesv1alpha1.StaticSite
		c          client.Client
		reconciler *StaticSiteReconciler
	)

	BeforeEach(func() {
		ctx = context.Background()
		site = newTestSite()
		c = newTestClient(site)
		// No AWS region: cloud reconcilers are not registered, which keeps
		// the loop testable without cloud credentials.
		reconciler = NewStaticSiteReconciler(c, newTestScheme(), Config{})
	})

	request := func() ctrl.Request {
		return ctrl.Request{NamespacedName: client.ObjectKeyFromObject(site)}
	}

	It("runs the k8s-side steps and requeues until deployed", func() {
		result, err := reconciler.Reconcile(ctx, request())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).NotTo(BeZero())

		fetched := &sitesv1alpha1.StaticSite{}
		Expect(c.Get(ctx, client.ObjectKeyFromObject(site), fetched)).To(Succeed())
		Expect(fetched.Finalizers).To(
			ContainElement("sites.edgesite.io/staticsite-finalizer"))
		Expect(fetched.Status.Phase).To(Equal(sitesv1alpha1.PhaseProvisioning))

		outputs := &corev1.ConfigMap{}
		Expect(c.Get(ctx, client.ObjectKey{
			Name: "example-endpoints", Namespace: "sites"}, outputs)).To(Succeed())
		Expect(outputs.Data).To(HaveKeyWithValue("siteURL", "https://example.com"))
	})

	It("ignores sites that no longer exist", func() {
		Expect(c.Delete(ctx, site)).To(Succeed())

		result, err := reconciler.Reconcile(ctx, request())
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(ctrl.Result{}))
	})

	It("tears down in reverse order and releases the site", func() {
		_, err := reconciler.Reconcile(ctx, request())
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Delete(ctx, site)).To(Succeed())

		// The finalizer keeps the object around until teardown has run.
		fetched := &sitesv1alpha1.StaticSite{}
		Expect(c.Get(ctx, client.ObjectKeyFromObject(site), fetched)).To(Succeed())
		Expect(fetched.DeletionTimestamp.IsZero()).To(BeFalse())

		_, err = reconciler.Reconcile(ctx, request())
		Expect(err).NotTo(HaveOccurred())

		err = c.Get(ctx, client.ObjectKeyFromObject(site), fetched)
		Expect(err).To(HaveOccurred())

		outputs := &corev1.ConfigMap{}
		err = c.Get(ctx, client.ObjectKey{
			Name: "example-endpoints", Namespace: "sites"}, outputs)
		Expect(err).To(HaveOccurred())
	})
})
