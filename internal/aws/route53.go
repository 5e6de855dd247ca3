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
	"github.com/aws/aws-sdk-go/service/route53"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Fixed hosted zone ID for CloudFront distribution alias targets.
const cloudFrontHostedZoneID = "Z2FDTNDATAQYW2"

// HostedZoneReconciler resolves the Route53 hosted zone for the apex domain.
// The zone is looked up, never created; a missing zone is a configuration
// error.
type HostedZoneReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *HostedZoneReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	svc := route53.New(r.AWS.sess)

	zoneName := fqdn(site.Spec.Domain)
	out, err := svc.ListHostedZonesByNameWithContext(ctx,
		&route53.ListHostedZonesByNameInput{
			DNSName:  aws.String(zoneName),
			MaxItems: aws.String("1"),
		})
	if err != nil {
		log.Error(err, "Failed to look up hosted zone", "domain", site.Spec.Domain)
		return err
	}
	if len(out.HostedZones) == 0 ||
		aws.StringValue(out.HostedZones[0].Name) != zoneName {
		return fmt.Errorf("no hosted zone found for domain %s", site.Spec.Domain)
	}

	zone := out.HostedZones[0]
	status.HostedZone.ID = strings.TrimPrefix(
		aws.StringValue(zone.Id), "/hostedzone/")
	status.HostedZone.Name = strings.TrimSuffix(
		aws.StringValue(zone.Name), ".")
	log.Info("Hosted zone resolved", "zone", status.HostedZone.Name,
		"id", status.HostedZone.ID)
	return nil
}

func (r *HostedZoneReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	// The zone is not owned by the site.
	site.Status.AWS.HostedZone = sitesv1alpha1.HostedZoneStatus{}
	return nil
}

// RecordsReconciler manages the alias records pointing the apex and
// subdomain at the distribution.
type RecordsReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *RecordsReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	if status.Distribution.DomainName == "" {
		// Distribution not created yet; records are applied on a later pass.
		return nil
	}

	svc := route53.New(r.AWS.sess)

	recordSets := siteAliasRecordSets(spec, status.Distribution.DomainName)
	if err := changeRecords(ctx, svc, status.HostedZone.ID,
		route53.ChangeActionUpsert, recordSets); err != nil {
		log.Error(err, "Failed to upsert alias records",
			"zone", status.HostedZone.ID)
		return err
	}

	status.Records = make([]sitesv1alpha1.RecordStatus, 0, len(recordSets))
	for _, rs := range recordSets {
		status.Records = append(status.Records, sitesv1alpha1.RecordStatus{
			Name:  strings.TrimSuffix(aws.StringValue(rs.Name), "."),
			Type:  aws.StringValue(rs.Type),
			Value: status.Distribution.DomainName,
		})
	}
	log.Info("Alias records applied", "zone", status.HostedZone.ID,
		"records", len(recordSets))
	return nil
}

func (r *RecordsReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	if status.HostedZone.ID == "" || status.Distribution.DomainName == "" {
		return nil // Records were never created.
	}

	svc := route53.New(r.AWS.sess)

	recordSets := siteAliasRecordSets(spec, status.Distribution.DomainName)
	if err := changeRecords(ctx, svc, status.HostedZone.ID,
		route53.ChangeActionDelete, recordSets); err != nil {
		log.Error(err, "Failed to delete alias records",
			"zone", status.HostedZone.ID)
		return err
	}
	status.Records = nil
	return nil
}

// siteAliasRecordSets builds the A (and optionally AAAA) alias record sets
// for every hostname the site is served under.
func siteAliasRecordSets(spec *sitesv1alpha1.StaticSiteSpec,
	distributionDomain string) []*route53.ResourceRecordSet {

	types := []string{route53.RRTypeA}
	if spec.CDN.IPv6 {
		types = append(types, route53.RRTypeAaaa)
	}

	var recordSets []*route53.ResourceRecordSet
	for _, hostname := range spec.SiteHostnames() {
		for _, recordType := range types {
			recordSets = append(recordSets, aliasRecordSet(
				hostname, recordType, distributionDomain))
		}
	}
	return recordSets
}

func aliasRecordSet(name, recordType, target string) *route53.ResourceRecordSet {
	return &route53.ResourceRecordSet{
		Name: aws.String(fqdn(name)),
		Type: aws.String(recordType),
		AliasTarget: &route53.AliasTarget{
			DNSName:              aws.String(fqdn(target)),
			EvaluateTargetHealth: aws.Bool(false),
			HostedZoneId:         aws.String(cloudFrontHostedZoneID),
		},
	}
}

func cnameRecordSet(name, value string, ttl int64) *route53.ResourceRecordSet {
	return &route53.ResourceRecordSet{
		Name: aws.String(fqdn(name)),
		Type: aws.String(route53.RRTypeCname),
		TTL:  aws.Int64(ttl),
		ResourceRecords: []*route53.ResourceRecord{
			{Value: aws.String(value)},
		},
	}
}

func changeRecords(ctx context.Context, svc *route53.Route53, zoneID,
	action string, recordSets []*route53.ResourceRecordSet) error {

	changes := make([]*route53.Change, 0, len(recordSets))
	for _, rs := range recordSets {
		changes = append(changes, &route53.Change{
			Action:            aws.String(action),
			ResourceRecordSet: rs,
		})
	}

	_, err := svc.ChangeResourceRecordSetsWithContext(ctx,
		&route53.ChangeResourceRecordSetsInput{
			HostedZoneId: aws.String(zoneID),
			ChangeBatch:  &route53.ChangeBatch{Changes: changes},
		})
	if err != nil && action == route53.ChangeActionDelete {
		// Deleting a record that is already gone is not an error.
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == "InvalidChangeBatch" {
			return nil
		}
	}
	return err
}

// fqdn appends the trailing dot Route53 uses for absolute names.
func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
