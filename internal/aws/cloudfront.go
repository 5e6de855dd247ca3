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

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/awsutil"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	distributionStateDeployed   = "Deployed"
	distributionStateInProgress = "InProgress"
)

// DistributionReconciler manages the CloudFront distribution fronting the
// site bucket and the origin access control that signs its requests.
type DistributionReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *DistributionReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	if status.Certificate.State != "ISSUED" {
		// The viewer certificate is a hard dependency of the distribution.
		return nil
	}

	if err := r.ReconcileOriginAccessControl(ctx, spec, status); err != nil {
		log.Error(err, "Failed reconciling origin access control",
			"domain", spec.Domain)
		return err
	}

	if status.Distribution.ID == "" {
		return r.CreateDistribution(ctx, spec, status)
	}
	return r.UpdateDistribution(ctx, spec, status)
}

func (r *DistributionReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	if status.Distribution.ID != "" {
		if err := r.DeleteDistribution(ctx, status); err != nil {
			return err
		}
	}

	if status.Distribution.OriginAccessControlID != "" {
		if err := r.DeleteOriginAccessControl(ctx, status); err != nil {
			log.Error(err, "Failed deleting origin access control",
				"oac", status.Distribution.OriginAccessControlID)
			return err
		}
	}
	status.Distribution = sitesv1alpha1.DistributionStatus{}
	return nil
}

// ReconcileOriginAccessControl ensures an OAC exists so the distribution can
// make signed requests to the otherwise private bucket.
func (r *DistributionReconciler) ReconcileOriginAccessControl(
	ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)

	if status.Distribution.OriginAccessControlID != "" {
		return nil // Already created.
	}

	svc := cloudfront.New(r.AWS.usEast1)
	name := spec.BucketName() + "-oac"

	out, err := svc.CreateOriginAccessControlWithContext(ctx,
		&cloudfront.CreateOriginAccessControlInput{
			OriginAccessControlConfig: &cloudfront.OriginAccessControlConfig{
				Name:                          aws.String(name),
				Description:                   aws.String(fmt.Sprintf("Signed origin access for %s", spec.Domain)),
				OriginAccessControlOriginType: aws.String(cloudfront.OriginAccessControlOriginTypesS3),
				SigningBehavior:               aws.String(cloudfront.OriginAccessControlSigningBehaviorsAlways),
				SigningProtocol:               aws.String(cloudfront.OriginAccessControlSigningProtocolsSigv4),
			},
		})
	if err == nil {
		status.Distribution.OriginAccessControlID = aws.StringValue(
			out.OriginAccessControl.Id)
		log.Info("Origin access control created", "oac", name,
			"id", status.Distribution.OriginAccessControlID)
		return nil
	}

	if aerr, ok := err.(awserr.Error); ok &&
		aerr.Code() == cloudfront.ErrCodeOriginAccessControlAlreadyExists {
		// Created on a previous pass before the status update stuck. Find it
		// by name.
		id, err := r.findOriginAccessControl(ctx, name)
		if err != nil {
			return err
		}
		status.Distribution.OriginAccessControlID = id
		return nil
	}
	return err
}

func (r *DistributionReconciler) findOriginAccessControl(ctx context.Context,
	name string) (string, error) {

	svc := cloudfront.New(r.AWS.usEast1)

	input := &cloudfront.ListOriginAccessControlsInput{}
	for {
		out, err := svc.ListOriginAccessControlsWithContext(ctx, input)
		if err != nil {
			return "", err
		}
		for _, item := range out.OriginAccessControlList.Items {
			if aws.StringValue(item.Name) == name {
				return aws.StringValue(item.Id), nil
			}
		}
		if !aws.BoolValue(out.OriginAccessControlList.IsTruncated) {
			return "", fmt.Errorf("origin access control %s not found", name)
		}
		input.Marker = out.OriginAccessControlList.NextMarker
	}
}

func (r *DistributionReconciler) CreateDistribution(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := cloudfront.New(r.AWS.usEast1)

	out, err := svc.CreateDistributionWithContext(ctx,
		&cloudfront.CreateDistributionInput{
			DistributionConfig: distributionConfig(spec, status),
		})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == cloudfront.ErrCodeDistributionAlreadyExists {
			// Created on a previous pass; recover the ID via the alias.
			return r.adoptDistribution(ctx, spec, status)
		}
		log.Error(err, "Failed to create distribution", "domain", spec.Domain)
		return err
	}

	status.Distribution.ID = aws.StringValue(out.Distribution.Id)
	status.Distribution.ARN = aws.StringValue(out.Distribution.ARN)
	status.Distribution.DomainName = aws.StringValue(out.Distribution.DomainName)
	status.Distribution.State = aws.StringValue(out.Distribution.Status)
	log.Info("Distribution created", "id", status.Distribution.ID,
		"domain", status.Distribution.DomainName)
	return nil
}

func (r *DistributionReconciler) UpdateDistribution(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := cloudfront.New(r.AWS.usEast1)

	current, err := svc.GetDistributionConfigWithContext(ctx,
		&cloudfront.GetDistributionConfigInput{
			Id: aws.String(status.Distribution.ID),
		})
	if err != nil {
		return err
	}

	desired := distributionConfig(spec, status)
	if !distributionNeedsUpdate(current.DistributionConfig, desired) {
		return r.refreshDistributionState(ctx, status)
	}

	// Merge the managed fields into the live config so settings this
	// controller does not own (logging, restrictions, WAF) are preserved.
	config := current.DistributionConfig
	config.Aliases = desired.Aliases
	config.Comment = desired.Comment
	config.DefaultRootObject = desired.DefaultRootObject
	config.Enabled = desired.Enabled
	config.HttpVersion = desired.HttpVersion
	config.IsIPV6Enabled = desired.IsIPV6Enabled
	config.PriceClass = desired.PriceClass
	config.Origins = desired.Origins
	config.DefaultCacheBehavior = desired.DefaultCacheBehavior
	config.CustomErrorResponses = desired.CustomErrorResponses
	config.ViewerCertificate = desired.ViewerCertificate

	out, err := svc.UpdateDistributionWithContext(ctx,
		&cloudfront.UpdateDistributionInput{
			Id:                 aws.String(status.Distribution.ID),
			IfMatch:            current.ETag,
			DistributionConfig: config,
		})
	if err != nil {
		log.Error(err, "Failed to update distribution",
			"id", status.Distribution.ID)
		return err
	}
	status.Distribution.State = aws.StringValue(out.Distribution.Status)
	log.Info("Distribution updated", "id", status.Distribution.ID)
	return nil
}

func (r *DistributionReconciler) refreshDistributionState(ctx context.Context,
	status *sitesv1alpha1.AWSStatus) error {

	svc := cloudfront.New(r.AWS.usEast1)
	out, err := svc.GetDistributionWithContext(ctx, &cloudfront.GetDistributionInput{
		Id: aws.String(status.Distribution.ID),
	})
	if err != nil {
		return err
	}
	status.Distribution.State = aws.StringValue(out.Distribution.Status)
	return nil
}

// adoptDistribution recovers the distribution matching the site's apex alias
// when the ID was lost before the status update was persisted.
func (r *DistributionReconciler) adoptDistribution(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := cloudfront.New(r.AWS.usEast1)

	input := &cloudfront.ListDistributionsInput{}
	for {
		out, err := svc.ListDistributionsWithContext(ctx, input)
		if err != nil {
			return err
		}
		for _, item := range out.DistributionList.Items {
			for _, alias := range item.Aliases.Items {
				if aws.StringValue(alias) == spec.Domain {
					status.Distribution.ID = aws.StringValue(item.Id)
					status.Distribution.ARN = aws.StringValue(item.ARN)
					status.Distribution.DomainName = aws.StringValue(item.DomainName)
					status.Distribution.State = aws.StringValue(item.Status)
					log.Info("Adopted existing distribution",
						"id", status.Distribution.ID, "domain", spec.Domain)
					return nil
				}
			}
		}
		if !aws.BoolValue(out.DistributionList.IsTruncated) {
			return fmt.Errorf("no distribution found with alias %s", spec.Domain)
		}
		input.Marker = out.DistributionList.NextMarker
	}
}

// DeleteDistribution drives the disable-wait-delete sequence CloudFront
// requires. Each step that has to wait for propagation reports ErrWaiting so
// the teardown is retried.
func (r *DistributionReconciler) DeleteDistribution(ctx context.Context,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := cloudfront.New(r.AWS.usEast1)

	out, err := svc.GetDistributionWithContext(ctx, &cloudfront.GetDistributionInput{
		Id: aws.String(status.Distribution.ID),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == cloudfront.ErrCodeNoSuchDistribution {
			status.Distribution.ID = ""
			return nil // Already deleted.
		}
		return err
	}
	status.Distribution.State = aws.StringValue(out.Distribution.Status)

	if aws.BoolValue(out.Distribution.DistributionConfig.Enabled) {
		config := out.Distribution.DistributionConfig
		config.Enabled = aws.Bool(false)
		if _, err := svc.UpdateDistributionWithContext(ctx,
			&cloudfront.UpdateDistributionInput{
				Id:                 aws.String(status.Distribution.ID),
				IfMatch:            out.ETag,
				DistributionConfig: config,
			}); err != nil {
			return err
		}
		status.Distribution.Disabled = true
		log.Info("Distribution disabled, waiting before delete",
			"id", status.Distribution.ID)
		return fmt.Errorf("distribution %s disabling: %w",
			status.Distribution.ID, ErrWaiting)
	}

	if status.Distribution.State == distributionStateInProgress {
		return fmt.Errorf("distribution %s change in progress: %w",
			status.Distribution.ID, ErrWaiting)
	}

	if _, err := svc.DeleteDistributionWithContext(ctx,
		&cloudfront.DeleteDistributionInput{
			Id:      aws.String(status.Distribution.ID),
			IfMatch: out.ETag,
		}); err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case cloudfront.ErrCodeNoSuchDistribution:
				status.Distribution.ID = ""
				return nil
			case cloudfront.ErrCodeDistributionNotDisabled:
				return fmt.Errorf("distribution %s not yet disabled: %w",
					status.Distribution.ID, ErrWaiting)
			}
		}
		return err
	}
	log.Info("Distribution deleted", "id", status.Distribution.ID)
	status.Distribution.ID = ""
	return nil
}

func (r *DistributionReconciler) DeleteOriginAccessControl(ctx context.Context,
	status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := cloudfront.New(r.AWS.usEast1)

	out, err := svc.GetOriginAccessControlWithContext(ctx,
		&cloudfront.GetOriginAccessControlInput{
			Id: aws.String(status.Distribution.OriginAccessControlID),
		})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == cloudfront.ErrCodeNoSuchOriginAccessControl {
			return nil // Already deleted.
		}
		return err
	}

	if _, err := svc.DeleteOriginAccessControlWithContext(ctx,
		&cloudfront.DeleteOriginAccessControlInput{
			Id:      aws.String(status.Distribution.OriginAccessControlID),
			IfMatch: out.ETag,
		}); err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == cloudfront.ErrCodeNoSuchOriginAccessControl {
			return nil
		}
		return err
	}
	log.Info("Origin access control deleted",
		"oac", status.Distribution.OriginAccessControlID)
	return nil
}

// distributionNeedsUpdate compares only the fields this controller manages.
// The live config carries API-populated defaults the desired config never
// sets, so a whole-struct comparison would always report drift.
func distributionNeedsUpdate(current, desired *cloudfront.DistributionConfig) bool {
	if aws.BoolValue(current.Enabled) != aws.BoolValue(desired.Enabled) ||
		aws.BoolValue(current.IsIPV6Enabled) != aws.BoolValue(desired.IsIPV6Enabled) ||
		aws.StringValue(current.DefaultRootObject) != aws.StringValue(desired.DefaultRootObject) ||
		aws.StringValue(current.PriceClass) != aws.StringValue(desired.PriceClass) ||
		aws.StringValue(current.HttpVersion) != aws.StringValue(desired.HttpVersion) {
		return true
	}

	if !awsutil.DeepEqual(current.Aliases, desired.Aliases) {
		return true
	}

	if current.Origins == nil || len(current.Origins.Items) != 1 {
		return true
	}
	currentOrigin, desiredOrigin := current.Origins.Items[0], desired.Origins.Items[0]
	if aws.StringValue(currentOrigin.DomainName) != aws.StringValue(desiredOrigin.DomainName) ||
		aws.StringValue(currentOrigin.OriginAccessControlId) != aws.StringValue(desiredOrigin.OriginAccessControlId) {
		return true
	}

	currentBehavior, desiredBehavior := current.DefaultCacheBehavior, desired.DefaultCacheBehavior
	if aws.StringValue(currentBehavior.ViewerProtocolPolicy) != aws.StringValue(desiredBehavior.ViewerProtocolPolicy) ||
		aws.BoolValue(currentBehavior.Compress) != aws.BoolValue(desiredBehavior.Compress) ||
		aws.Int64Value(currentBehavior.MinTTL) != aws.Int64Value(desiredBehavior.MinTTL) ||
		aws.Int64Value(currentBehavior.DefaultTTL) != aws.Int64Value(desiredBehavior.DefaultTTL) ||
		aws.Int64Value(currentBehavior.MaxTTL) != aws.Int64Value(desiredBehavior.MaxTTL) {
		return true
	}

	if current.ViewerCertificate == nil ||
		aws.StringValue(current.ViewerCertificate.ACMCertificateArn) != aws.StringValue(desired.ViewerCertificate.ACMCertificateArn) ||
		aws.StringValue(current.ViewerCertificate.MinimumProtocolVersion) != aws.StringValue(desired.ViewerCertificate.MinimumProtocolVersion) {
		return true
	}

	return !awsutil.DeepEqual(current.CustomErrorResponses, desired.CustomErrorResponses)
}

// distributionConfig builds the full distribution description: the bucket as
// a signed S3 origin, the site hostnames as aliases and the issued
// certificate for viewers.
func distributionConfig(spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.AWSStatus) *cloudfront.DistributionConfig {

	originID := "s3-" + spec.BucketName()
	hostnames := spec.SiteHostnames()

	priceClass := spec.CDN.PriceClass
	if priceClass == "" {
		priceClass = cloudfront.PriceClassPriceClass100
	}
	viewerPolicy := spec.CDN.ViewerProtocolPolicy
	if viewerPolicy == "" {
		viewerPolicy = cloudfront.ViewerProtocolPolicyRedirectToHttps
	}
	rootObject := spec.CDN.DefaultRootObject
	if rootObject == "" {
		rootObject = spec.Bucket.IndexDocument
	}
	if rootObject == "" {
		rootObject = "index.html"
	}
	errorDoc := spec.Bucket.ErrorDocument
	if errorDoc == "" {
		errorDoc = "error.html"
	}

	aliases := make([]*string, 0, len(hostnames))
	for _, hostname := range hostnames {
		aliases = append(aliases, aws.String(hostname))
	}

	return &cloudfront.DistributionConfig{
		CallerReference:   aws.String(idempotencyToken(spec.Domain)),
		Comment:           aws.String(fmt.Sprintf("Static site %s", spec.Domain)),
		Enabled:           aws.Bool(true),
		IsIPV6Enabled:     aws.Bool(spec.CDN.IPv6),
		DefaultRootObject: aws.String(rootObject),
		PriceClass:        aws.String(priceClass),
		HttpVersion:       aws.String(cloudfront.HttpVersionHttp2),
		Aliases: &cloudfront.Aliases{
			Quantity: aws.Int64(int64(len(aliases))),
			Items:    aliases,
		},
		Origins: &cloudfront.Origins{
			Quantity: aws.Int64(1),
			Items: []*cloudfront.Origin{{
				Id:                    aws.String(originID),
				DomainName:            aws.String(status.Bucket.RegionalDomainName),
				OriginAccessControlId: aws.String(status.Distribution.OriginAccessControlID),
				S3OriginConfig: &cloudfront.S3OriginConfig{
					// Empty identity: access is granted through the origin
					// access control, not a legacy OAI.
					OriginAccessIdentity: aws.String(""),
				},
			}},
		},
		DefaultCacheBehavior: &cloudfront.DefaultCacheBehavior{
			TargetOriginId:       aws.String(originID),
			ViewerProtocolPolicy: aws.String(viewerPolicy),
			Compress:             aws.Bool(true),
			MinTTL:               aws.Int64(ttlOrDefault(spec.CDN.MinTTL, 0)),
			DefaultTTL:           aws.Int64(ttlOrDefault(spec.CDN.DefaultTTL, 3600)),
			MaxTTL:               aws.Int64(ttlOrDefault(spec.CDN.MaxTTL, 86400)),
			ForwardedValues: &cloudfront.ForwardedValues{
				QueryString: aws.Bool(false),
				Cookies: &cloudfront.CookiePreference{
					Forward: aws.String(cloudfront.ItemSelectionNone),
				},
			},
		},
		// S3 answers 403 for missing keys when the bucket is private, so
		// both map to the error document.
		CustomErrorResponses: &cloudfront.CustomErrorResponses{
			Quantity: aws.Int64(2),
			Items: []*cloudfront.CustomErrorResponse{
				customErrorResponse(403, errorDoc),
				customErrorResponse(404, errorDoc),
			},
		},
		ViewerCertificate: &cloudfront.ViewerCertificate{
			ACMCertificateArn:      aws.String(status.Certificate.ARN),
			SSLSupportMethod:       aws.String(cloudfront.SSLSupportMethodSniOnly),
			MinimumProtocolVersion: aws.String(cloudfront.MinimumProtocolVersionTlsv122021),
		},
	}
}

func customErrorResponse(code int64, errorDoc string) *cloudfront.CustomErrorResponse {
	return &cloudfront.CustomErrorResponse{
		ErrorCode:          aws.Int64(code),
		ResponseCode:       aws.String("404"),
		ResponsePagePath:   aws.String("/" + errorDoc),
		ErrorCachingMinTTL: aws.Int64(300),
	}
}

func ttlOrDefault(value *int64, fallback int64) int64 {
	if value != nil {
		return *value
	}
	return fallback
}
