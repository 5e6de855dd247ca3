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
	"context"
	"fmt"
	"strings"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/acm"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const validationRecordTTL = 300

// CertificateReconciler requests the site certificate and proves domain
// ownership by publishing the DNS validation records ACM hands back.
// Certificates served by CloudFront must be requested in us-east-1.
type CertificateReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *CertificateReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	svc := acm.New(r.AWS.usEast1)

	if status.Certificate.ARN == "" {
		arn, err := r.RequestCertificate(ctx, spec)
		if err != nil {
			log.Error(err, "Failed to request certificate", "domain", spec.Domain)
			return err
		}
		status.Certificate.ARN = arn
	}

	cert, err := svc.DescribeCertificateWithContext(ctx,
		&acm.DescribeCertificateInput{
			CertificateArn: aws.String(status.Certificate.ARN),
		})
	if err != nil {
		return err
	}
	status.Certificate.State = aws.StringValue(cert.Certificate.Status)

	records := validationRecords(cert.Certificate)
	if len(records) == 0 {
		// ACM has not produced the validation options yet.
		return fmt.Errorf("validation records for %s not available: %w",
			spec.Domain, ErrWaiting)
	}

	if err := r.ReconcileValidationRecords(ctx, status, records); err != nil {
		log.Error(err, "Failed to publish validation records",
			"certificate", status.Certificate.ARN)
		return err
	}

	switch status.Certificate.State {
	case acm.CertificateStatusIssued:
		return nil
	case acm.CertificateStatusPendingValidation:
		return fmt.Errorf("certificate %s pending validation: %w",
			status.Certificate.ARN, ErrWaiting)
	default:
		return fmt.Errorf("certificate %s in unexpected state %s",
			status.Certificate.ARN, status.Certificate.State)
	}
}

func (r *CertificateReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	if status.Certificate.ARN == "" {
		return nil // Certificate was never requested.
	}

	if status.HostedZone.ID != "" && len(status.Certificate.ValidationRecords) > 0 {
		dns := route53.New(r.AWS.sess)
		recordSets := make([]*route53.ResourceRecordSet, 0,
			len(status.Certificate.ValidationRecords))
		for _, record := range status.Certificate.ValidationRecords {
			recordSets = append(recordSets,
				cnameRecordSet(record.Name, record.Value, validationRecordTTL))
		}
		if err := changeRecords(ctx, dns, status.HostedZone.ID,
			route53.ChangeActionDelete, recordSets); err != nil {
			log.Error(err, "Failed to delete validation records",
				"zone", status.HostedZone.ID)
			return err
		}
		status.Certificate.ValidationRecords = nil
	}

	svc := acm.New(r.AWS.usEast1)
	if _, err := svc.DeleteCertificateWithContext(ctx,
		&acm.DeleteCertificateInput{
			CertificateArn: aws.String(status.Certificate.ARN),
		}); err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case acm.ErrCodeResourceNotFoundException:
				// Already deleted.
			case acm.ErrCodeResourceInUseException:
				// Still referenced, usually by a distribution that is going
				// away.
				return fmt.Errorf("certificate %s still in use: %w",
					status.Certificate.ARN, ErrWaiting)
			default:
				return err
			}
		} else {
			return err
		}
	}
	log.Info("Certificate deleted", "certificate", status.Certificate.ARN)
	status.Certificate = sitesv1alpha1.CertificateStatus{}
	return nil
}

func (r *CertificateReconciler) RequestCertificate(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec) (string, error) {

	log := log.FromContext(ctx)
	svc := acm.New(r.AWS.usEast1)

	sans := spec.SiteHostnames()[1:]
	sans = append(sans, spec.Certificate.SubjectAlternativeNames...)

	input := &acm.RequestCertificateInput{
		DomainName:       aws.String(spec.Domain),
		ValidationMethod: aws.String(acm.ValidationMethodDns),
		// Deterministic token so a repeated reconcile gets the same
		// certificate back instead of a duplicate.
		IdempotencyToken: aws.String(idempotencyToken(spec.Domain)),
	}
	if len(sans) > 0 {
		input.SubjectAlternativeNames = aws.StringSlice(sans)
	}

	out, err := svc.RequestCertificateWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	log.Info("Certificate requested", "domain", spec.Domain,
		"certificate", aws.StringValue(out.CertificateArn))
	return aws.StringValue(out.CertificateArn), nil
}

func (r *CertificateReconciler) ReconcileValidationRecords(ctx context.Context,
	status *sitesv1alpha1.AWSStatus,
	records []sitesv1alpha1.RecordStatus) error {

	log := log.FromContext(ctx)
	svc := route53.New(r.AWS.sess)

	recordSets := make([]*route53.ResourceRecordSet, 0, len(records))
	for _, record := range records {
		recordSets = append(recordSets,
			cnameRecordSet(record.Name, record.Value, validationRecordTTL))
	}
	if err := changeRecords(ctx, svc, status.HostedZone.ID,
		route53.ChangeActionUpsert, recordSets); err != nil {
		return err
	}
	status.Certificate.ValidationRecords = records
	log.Info("Validation records published", "zone", status.HostedZone.ID,
		"records", len(records))
	return nil
}

// validationRecords extracts the DNS validation CNAMEs from the certificate
// details, deduplicated by name. The apex and its subdomains usually share a
// single record.
func validationRecords(cert *acm.CertificateDetail) []sitesv1alpha1.RecordStatus {
	seen := make(map[string]bool)
	var records []sitesv1alpha1.RecordStatus
	for _, option := range cert.DomainValidationOptions {
		rr := option.ResourceRecord
		if rr == nil {
			continue
		}
		name := strings.TrimSuffix(aws.StringValue(rr.Name), ".")
		if seen[name] {
			continue
		}
		seen[name] = true
		records = append(records, sitesv1alpha1.RecordStatus{
			Name:  name,
			Type:  aws.StringValue(rr.Type),
			Value: aws.StringValue(rr.Value),
		})
	}
	return records
}

// idempotencyToken derives a stable alphanumeric token from the domain.
// ACM limits tokens to 32 characters.
func idempotencyToken(domain string) string {
	token := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(domain)).String()
	return strings.ReplaceAll(token, "-", "")
}
