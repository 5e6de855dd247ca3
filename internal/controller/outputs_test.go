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
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var _ = Describe("Outputs reconciler", func() {
	var (
		ctx        context.Context
		site       *sitesv1alpha1.StaticSite
		c          client.Client
		reconciler *OutputsReconciler
	)

	outputsKey := func() client.ObjectKey {
		return client.ObjectKey{Name: "example-endpoints", Namespace: "sites"}
	}

	BeforeEach(func() {
		ctx = context.Background()
		site = newTestSite()
		site.Status.AWS = sitesv1alpha1.AWSStatus{
			Bucket: sitesv1alpha1.BucketStatus{
				Name: "example.com",
				ARN:  "arn:aws:s3:::example.com",
			},
			Certificate: sitesv1alpha1.CertificateStatus{
				ARN: "arn:aws:acm:us-east-1:123456789012:certificate/abc",
			},
			Distribution: sitesv1alpha1.DistributionStatus{
				ID:         "E1ABC",
				DomainName: "d111.cloudfront.net",
			},
		}
		c = newTestClient(site)
		reconciler = &OutputsReconciler{Client: Client{Client: c}}
	})

	It("publishes the endpoints in a ConfigMap", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())

		outputs := &corev1.ConfigMap{}
		Expect(c.Get(ctx, outputsKey(), outputs)).To(Succeed())
		Expect(outputs.Data).To(HaveKeyWithValue("siteURL", "https://example.com"))
		Expect(outputs.Data).To(HaveKeyWithValue("bucketName", "example.com"))
		Expect(outputs.Data).To(HaveKeyWithValue("distributionDomain", "d111.cloudfront.net"))
		Expect(outputs.Data).To(HaveKeyWithValue("distributionID", "E1ABC"))
		Expect(outputs.Data).To(HaveKeyWithValue("certificateARN",
			"arn:aws:acm:us-east-1:123456789012:certificate/abc"))
		Expect(outputs.Data).NotTo(HaveKey("deployRoleARN"))
	})

	It("updates the ConfigMap when the status moves", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())

		site.Status.AWS.DeployRole.ARN = "arn:aws:iam::123456789012:role/example-deploy"
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())

		outputs := &corev1.ConfigMap{}
		Expect(c.Get(ctx, outputsKey(), outputs)).To(Succeed())
		Expect(outputs.Data).To(HaveKeyWithValue("deployRoleARN",
			"arn:aws:iam::123456789012:role/example-deploy"))
	})

	It("deletes the ConfigMap on teardown", func() {
		Expect(reconciler.Reconcile(ctx, site)).To(Succeed())
		Expect(reconciler.Teardown(ctx, site)).To(Succeed())

		outputs := &corev1.ConfigMap{}
		err := c.Get(ctx, outputsKey(), outputs)
		Expect(errors.IsNotFound(err)).To(BeTrue())
	})

	It("tolerates teardown when nothing was published", func() {
		Expect(reconciler.Teardown(ctx, site)).To(Succeed())
	})
})

var _ = Describe("mapsEqual", func() {
	It("compares maps by content", func() {
		Expect(mapsEqual(nil, nil)).To(BeTrue())
		Expect(mapsEqual(map[string]string{"a": "1"}, map[string]string{"a": "1"})).To(BeTrue())
		Expect(mapsEqual(map[string]string{"a": "1"}, map[string]string{"a": "2"})).To(BeFalse())
		Expect(mapsEqual(map[string]string{"a": "1"}, map[string]string{})).To(BeFalse())
	})
})
