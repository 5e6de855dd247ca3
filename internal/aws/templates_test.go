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

package aws

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Policy templates", func() {
	client := AWSClient{config: AWSConfig{
		Templates: "../../templates/aws/policies",
	}}

	It("renders the origin access bucket policy", func() {
		policy, err := client.renderPolicy("bucket-policy", map[string]any{
			"bucketARN":       "arn:aws:s3:::example.com",
			"distributionARN": "arn:aws:cloudfront::123456789012:distribution/E1ABC",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(json.Valid([]byte(policy))).To(BeTrue())
		Expect(policy).To(ContainSubstring("arn:aws:s3:::example.com/*"))
		Expect(policy).To(ContainSubstring(
			"arn:aws:cloudfront::123456789012:distribution/E1ABC"))
		Expect(policy).To(ContainSubstring("cloudfront.amazonaws.com"))
	})

	It("renders the public read policy", func() {
		policy, err := client.renderPolicy("public-read-policy", map[string]any{
			"bucketARN": "arn:aws:s3:::example.com",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(json.Valid([]byte(policy))).To(BeTrue())
		Expect(policy).To(ContainSubstring("s3:GetObject"))
	})

	It("renders the deploy role documents", func() {
		trust, err := client.renderPolicy("trust-policy", map[string]any{
			"accountID": "123456789012",
			"oidc": map[string]any{
				"provider": "oidc.eks.eu-west-2.amazonaws.com/id/ABC",
			},
			"namespace":      "sites",
			"serviceAccount": "publisher",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Valid([]byte(trust))).To(BeTrue())
		Expect(trust).To(ContainSubstring(
			"system:serviceaccount:sites:publisher"))

		policy, err := client.renderPolicy("deploy-role-policy", map[string]any{
			"bucketARN":       "arn:aws:s3:::example.com",
			"distributionARN": "arn:aws:cloudfront::123456789012:distribution/E1ABC",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Valid([]byte(policy))).To(BeTrue())
		Expect(policy).To(ContainSubstring("cloudfront:CreateInvalidation"))
	})

	It("fails for a missing template", func() {
		_, err := client.renderPolicy("no-such-policy", nil)
		Expect(err).To(HaveOccurred())
	})
})
