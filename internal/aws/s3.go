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
	"github.com/aws/aws-sdk-go/service/s3"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

type BucketReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *BucketReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	svc := s3.New(r.AWS.sess)
	name := spec.BucketName()

	if err := r.ReconcileBucket(ctx, name); err != nil {
		log.Error(err, "Failed reconciling bucket", "bucket", name)
		return err
	}
	status.Bucket.Name = name
	status.Bucket.ARN = fmt.Sprintf("arn:aws:s3:::%s", name)
	status.Bucket.RegionalDomainName = fmt.Sprintf("%s.s3.%s.amazonaws.com",
		name, r.AWS.Region())

	if err := r.ReconcileVersioning(ctx, spec, &status.Bucket); err != nil {
		log.Error(err, "Failed reconciling bucket versioning", "bucket", name)
		return err
	}

	if spec.Bucket.ACL == sitesv1alpha1.ACLPublicRead {
		if err := r.ReconcileWebsiteConfig(ctx, spec, &status.Bucket); err != nil {
			log.Error(err, "Failed reconciling website configuration",
				"bucket", name)
			return err
		}
	} else {
		// Reads go through the distribution only. Direct object access is
		// blocked and the bucket policy is attached once the distribution
		// exists.
		if _, err := svc.PutPublicAccessBlockWithContext(ctx,
			&s3.PutPublicAccessBlockInput{
				Bucket: aws.String(name),
				PublicAccessBlockConfiguration: &s3.PublicAccessBlockConfiguration{
					BlockPublicAcls:       aws.Bool(true),
					BlockPublicPolicy:     aws.Bool(true),
					IgnorePublicAcls:      aws.Bool(true),
					RestrictPublicBuckets: aws.Bool(true),
				},
			}); err != nil {
			log.Error(err, "Failed blocking public access", "bucket", name)
			return err
		}
		status.Bucket.WebsiteEndpoint = ""
	}

	return nil
}

func (r *BucketReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	if status.Bucket.Name == "" {
		return nil // Bucket was never created.
	}

	svc := s3.New(r.AWS.sess)

	if err := r.EmptyBucket(ctx, status.Bucket.Name); err != nil {
		log.Error(err, "Failed emptying bucket", "bucket", status.Bucket.Name)
		return err
	}

	if _, err := svc.DeleteBucketWithContext(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(status.Bucket.Name),
	}); err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchBucket {
			return nil // Already deleted.
		}
		return err
	}
	log.Info("Bucket deleted", "bucket", status.Bucket.Name)
	status.Bucket = sitesv1alpha1.BucketStatus{}
	return nil
}

// Create the bucket if it does not already exist. Ownership of an existing
// bucket with the same name is fine; someone else's bucket is not.
func (r *BucketReconciler) ReconcileBucket(ctx context.Context, name string) error {
	log := log.FromContext(ctx)
	svc := s3.New(r.AWS.sess)

	if _, err := svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	}); err == nil {
		return nil // Bucket exists.
	} else if aerr, ok := err.(awserr.Error); ok && aerr.Code() != "NotFound" {
		return err
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	// us-east-1 rejects an explicit location constraint
	if region := r.AWS.Region(); region != "us-east-1" {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(region),
		}
	}
	if _, err := svc.CreateBucketWithContext(ctx, input); err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == s3.ErrCodeBucketAlreadyOwnedByYou {
			return nil
		}
		return err
	}
	log.Info("Bucket created", "bucket", name)
	return nil
}

func (r *BucketReconciler) ReconcileVersioning(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.BucketStatus) error {

	log := log.FromContext(ctx)
	svc := s3.New(r.AWS.sess)

	state := s3.BucketVersioningStatusSuspended
	if spec.Bucket.Versioning {
		state = s3.BucketVersioningStatusEnabled
	}

	current, err := svc.GetBucketVersioningWithContext(ctx,
		&s3.GetBucketVersioningInput{Bucket: aws.String(status.Name)})
	if err != nil {
		return err
	}
	if aws.StringValue(current.Status) == state ||
		(current.Status == nil && !spec.Bucket.Versioning) {
		status.VersioningState = aws.StringValue(current.Status)
		return nil // Already in the desired state.
	}

	if _, err := svc.PutBucketVersioningWithContext(ctx,
		&s3.PutBucketVersioningInput{
			Bucket: aws.String(status.Name),
			VersioningConfiguration: &s3.VersioningConfiguration{
				Status: aws.String(state),
			},
		}); err != nil {
		return err
	}
	log.Info("Bucket versioning updated", "bucket", status.Name, "state", state)
	status.VersioningState = state
	return nil
}

// ReconcileWebsiteConfig sets up S3 static website hosting with a public
// bucket policy. Used for public-read sites only.
func (r *BucketReconciler) ReconcileWebsiteConfig(ctx context.Context,
	spec *sitesv1alpha1.StaticSiteSpec,
	status *sitesv1alpha1.BucketStatus) error {

	log := log.FromContext(ctx)
	svc := s3.New(r.AWS.sess)

	index := spec.Bucket.IndexDocument
	if index == "" {
		index = "index.html"
	}
	errorDoc := spec.Bucket.ErrorDocument
	if errorDoc == "" {
		errorDoc = "error.html"
	}

	if _, err := svc.PutBucketWebsiteWithContext(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(status.Name),
		WebsiteConfiguration: &s3.WebsiteConfiguration{
			IndexDocument: &s3.IndexDocument{Suffix: aws.String(index)},
			ErrorDocument: &s3.ErrorDocument{Key: aws.String(errorDoc)},
		},
	}); err != nil {
		return err
	}

	// Public policies are blocked by default on new buckets.
	if _, err := svc.PutPublicAccessBlockWithContext(ctx,
		&s3.PutPublicAccessBlockInput{
			Bucket: aws.String(status.Name),
			PublicAccessBlockConfiguration: &s3.PublicAccessBlockConfiguration{
				BlockPublicAcls:       aws.Bool(false),
				BlockPublicPolicy:     aws.Bool(false),
				IgnorePublicAcls:      aws.Bool(false),
				RestrictPublicBuckets: aws.Bool(false),
			},
		}); err != nil {
		return err
	}

	policy, err := r.AWS.renderPolicy("public-read-policy", map[string]any{
		"bucketARN": status.ARN,
	})
	if err != nil {
		return err
	}
	if _, err := svc.PutBucketPolicyWithContext(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(status.Name),
		Policy: aws.String(policy),
	}); err != nil {
		return err
	}

	status.WebsiteEndpoint = fmt.Sprintf("%s.s3-website-%s.amazonaws.com",
		status.Name, r.AWS.Region())
	log.Info("Website configuration applied", "bucket", status.Name,
		"endpoint", status.WebsiteEndpoint)
	return nil
}

// EmptyBucket removes all objects, including old versions and delete
// markers, so the bucket itself can be deleted.
func (r *BucketReconciler) EmptyBucket(ctx context.Context, name string) error {
	log := log.FromContext(ctx)
	svc := s3.New(r.AWS.sess)

	input := &s3.ListObjectVersionsInput{Bucket: aws.String(name)}
	for {
		page, err := svc.ListObjectVersionsWithContext(ctx, input)
		if err != nil {
			if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchBucket {
				return nil // Nothing to empty.
			}
			return err
		}

		objects := make([]*s3.ObjectIdentifier, 0,
			len(page.Versions)+len(page.DeleteMarkers))
		for _, version := range page.Versions {
			objects = append(objects, &s3.ObjectIdentifier{
				Key:       version.Key,
				VersionId: version.VersionId,
			})
		}
		for _, marker := range page.DeleteMarkers {
			objects = append(objects, &s3.ObjectIdentifier{
				Key:       marker.Key,
				VersionId: marker.VersionId,
			})
		}
		if len(objects) > 0 {
			if _, err := svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(name),
				Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
			}); err != nil {
				return err
			}
			log.Info("Deleted objects from bucket", "bucket", name,
				"count", len(objects))
		}

		if !aws.BoolValue(page.IsTruncated) {
			return nil
		}
		input.KeyMarker = page.NextKeyMarker
		input.VersionIdMarker = page.NextVersionIdMarker
	}
}

// BucketPolicyReconciler attaches the origin access policy that restricts
// bucket reads to signed requests from the distribution. It runs after the
// distribution exists because the policy conditions on the distribution ARN.
type BucketPolicyReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *BucketPolicyReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	if spec.Bucket.ACL == sitesv1alpha1.ACLPublicRead {
		return nil // Public policy is attached with the website config.
	}
	if status.Distribution.ARN == "" {
		// Distribution not created yet; the policy is attached on a later
		// pass.
		return nil
	}

	svc := s3.New(r.AWS.sess)

	policy, err := r.AWS.renderPolicy("bucket-policy", map[string]any{
		"bucketARN":       status.Bucket.ARN,
		"distributionARN": status.Distribution.ARN,
	})
	if err != nil {
		return err
	}

	current, err := svc.GetBucketPolicyWithContext(ctx, &s3.GetBucketPolicyInput{
		Bucket: aws.String(status.Bucket.Name),
	})
	if err == nil && aws.StringValue(current.Policy) == policy {
		return nil // Policy already attached.
	}
	if err != nil {
		if aerr, ok := err.(awserr.Error); !ok || aerr.Code() != "NoSuchBucketPolicy" {
			return err
		}
	}

	if _, err := svc.PutBucketPolicyWithContext(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(status.Bucket.Name),
		Policy: aws.String(policy),
	}); err != nil {
		return err
	}
	log.Info("Attached origin access policy to bucket",
		"bucket", status.Bucket.Name, "distribution", status.Distribution.ID)
	return nil
}

func (r *BucketPolicyReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	if status.Bucket.Name == "" {
		return nil
	}

	svc := s3.New(r.AWS.sess)
	if _, err := svc.DeleteBucketPolicyWithContext(ctx,
		&s3.DeleteBucketPolicyInput{
			Bucket: aws.String(status.Bucket.Name),
		}); err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			(aerr.Code() == s3.ErrCodeNoSuchBucket || aerr.Code() == "NoSuchBucketPolicy") {
			return nil // Already gone.
		}
		return err
	}
	log.Info("Bucket policy deleted", "bucket", status.Bucket.Name)
	return nil
}
