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
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/acm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validation records", func() {
	It("deduplicates options sharing a record", func() {
		// Apex and www validate through the same CNAME.
		record := &acm.ResourceRecord{
			Name:  aws.String("_abc123.example.com."),
			Type:  aws.String("CNAME"),
			Value: aws.String("_xyz.acm-validations.aws."),
		}
		cert := &acm.CertificateDetail{
			DomainValidationOptions: []*acm.DomainValidation{
				{DomainName: aws.String("example.com"), ResourceRecord: record},
				{DomainName: aws.String("www.example.com"), ResourceRecord: record},
			},
		}

		records := validationRecords(cert)

		Expect(records).To(HaveLen(1))
		Expect(records[0].Name).To(Equal("_abc123.example.com"))
		Expect(records[0].Type).To(Equal("CNAME"))
		Expect(records[0].Value).To(Equal("_xyz.acm-validations.aws."))
	})

	It("skips options whose record is not available yet", func() {
		cert := &acm.CertificateDetail{
			DomainValidationOptions: []*acm.DomainValidation{
				{DomainName: aws.String("example.com")},
			},
		}

		Expect(validationRecords(cert)).To(BeEmpty())
	})
})

var _ = Describe("Idempotency tokens", func() {
	It("is stable for a domain and within the ACM length limit", func() {
		first := idempotencyToken("example.com")
		second := idempotencyToken("example.com")

		Expect(first).To(Equal(second))
		Expect(len(first)).To(BeNumerically("<=", 32))
		Expect(first).NotTo(ContainSubstring("-"))
	})

	It("differs between domains", func() {
		Expect(idempotencyToken("example.com")).NotTo(
			Equal(idempotencyToken("example.org")))
	})
})
