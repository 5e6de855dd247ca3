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
	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/route53"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Alias record sets", func() {
	It("creates an A record per hostname", func() {
		spec := &sitesv1alpha1.StaticSiteSpec{
			Domain:    "example.com",
			Subdomain: "www",
		}

		recordSets := siteAliasRecordSets(spec, "d111.cloudfront.net")

		Expect(recordSets).To(HaveLen(2))
		names := make([]string, 0, 2)
		for _, rs := range recordSets {
			Expect(aws.StringValue(rs.Type)).To(Equal(route53.RRTypeA))
			names = append(names, aws.StringValue(rs.Name))
		}
		Expect(names).To(ConsistOf("example.com.", "www.example.com."))
	})

	It("adds AAAA records when IPv6 is enabled", func() {
		spec := &sitesv1alpha1.StaticSiteSpec{
			Domain: "example.com",
			CDN:    sitesv1alpha1.CDNSpec{IPv6: true},
		}

		recordSets := siteAliasRecordSets(spec, "d111.cloudfront.net")

		Expect(recordSets).To(HaveLen(2))
		types := []string{
			aws.StringValue(recordSets[0].Type),
			aws.StringValue(recordSets[1].Type),
		}
		Expect(types).To(ConsistOf(route53.RRTypeA, route53.RRTypeAaaa))
	})

	It("targets the CloudFront hosted zone", func() {
		rs := aliasRecordSet("example.com", route53.RRTypeA, "d111.cloudfront.net")

		Expect(aws.StringValue(rs.AliasTarget.HostedZoneId)).To(
			Equal(cloudFrontHostedZoneID))
		Expect(aws.StringValue(rs.AliasTarget.DNSName)).To(
			Equal("d111.cloudfront.net."))
		Expect(aws.BoolValue(rs.AliasTarget.EvaluateTargetHealth)).To(BeFalse())
	})
})

var _ = Describe("CNAME record sets", func() {
	It("builds a TTL-bounded CNAME", func() {
		rs := cnameRecordSet("_abc.example.com", "_def.acm-validations.aws", 300)

		Expect(aws.StringValue(rs.Name)).To(Equal("_abc.example.com."))
		Expect(aws.StringValue(rs.Type)).To(Equal(route53.RRTypeCname))
		Expect(aws.Int64Value(rs.TTL)).To(Equal(int64(300)))
		Expect(rs.ResourceRecords).To(HaveLen(1))
		Expect(aws.StringValue(rs.ResourceRecords[0].Value)).To(
			Equal("_def.acm-validations.aws"))
	})
})

var _ = Describe("fqdn", func() {
	It("appends a trailing dot exactly once", func() {
		Expect(fqdn("example.com")).To(Equal("example.com."))
		Expect(fqdn("example.com.")).To(Equal("example.com."))
	})
})
