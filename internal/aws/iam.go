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

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/iam"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// DeployRoleReconciler manages the optional IAM role CI pipelines assume to
// publish site content and invalidate cached objects.
type DeployRoleReconciler struct {
	client.Client
	AWS AWSClient
}

func (r *DeployRoleReconciler) Reconcile(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	spec := &site.Spec
	status := &site.Status.AWS

	if spec.DeployRole == nil {
		return nil
	}

	svc := iam.New(r.AWS.sess)
	roleName := deployRoleName(site)

	role, err := svc.GetRoleWithContext(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err == nil {
		status.DeployRole.Name = aws.StringValue(role.Role.RoleName)
		status.DeployRole.ARN = aws.StringValue(role.Role.Arn)
	} else if aerr, ok := err.(awserr.Error); ok &&
		aerr.Code() == iam.ErrCodeNoSuchEntityException {
		// Role does not exist. Create it.
		trustPolicy, err := r.AWS.renderPolicy("trust-policy", map[string]any{
			"accountID": r.AWS.config.AccountID,
			"oidc": map[string]any{
				"provider": r.AWS.config.OIDC.Provider,
			},
			"namespace":      site.Namespace,
			"serviceAccount": spec.DeployRole.ServiceAccount,
		})
		if err != nil {
			return err
		}
		role, err := svc.CreateRoleWithContext(ctx, &iam.CreateRoleInput{
			RoleName:                 aws.String(roleName),
			Path:                     aws.String("/"),
			AssumeRolePolicyDocument: aws.String(trustPolicy),
		})
		if err != nil {
			return err
		}
		log.Info("Deploy role created", "role", roleName)
		status.DeployRole.Name = aws.StringValue(role.Role.RoleName)
		status.DeployRole.ARN = aws.StringValue(role.Role.Arn)
	} else {
		return err
	}

	return r.ReconcileRolePolicy(ctx, roleName, status)
}

// ReconcileRolePolicy keeps the inline policy in step with the bucket and
// distribution ARNs, which are not known until those resources exist.
func (r *DeployRoleReconciler) ReconcileRolePolicy(ctx context.Context,
	roleName string, status *sitesv1alpha1.AWSStatus) error {

	log := log.FromContext(ctx)
	svc := iam.New(r.AWS.sess)

	if status.Bucket.ARN == "" || status.Distribution.ARN == "" {
		return nil // Targets not provisioned yet.
	}

	policy, err := r.AWS.renderPolicy("deploy-role-policy", map[string]any{
		"bucketARN":       status.Bucket.ARN,
		"distributionARN": status.Distribution.ARN,
	})
	if err != nil {
		return err
	}

	current, err := svc.GetRolePolicyWithContext(ctx, &iam.GetRolePolicyInput{
		PolicyName: aws.String(roleName),
		RoleName:   aws.String(roleName),
	})
	if err == nil && aws.StringValue(current.PolicyDocument) == policy {
		return nil // Policy up to date.
	}
	if err != nil {
		if aerr, ok := err.(awserr.Error); !ok ||
			aerr.Code() != iam.ErrCodeNoSuchEntityException {
			return err
		}
	}

	if _, err := svc.PutRolePolicyWithContext(ctx, &iam.PutRolePolicyInput{
		PolicyDocument: aws.String(policy),
		PolicyName:     aws.String(roleName),
		RoleName:       aws.String(roleName),
	}); err != nil {
		return err
	}
	log.Info("Deploy role policy attached", "role", roleName)
	return nil
}

func (r *DeployRoleReconciler) Teardown(ctx context.Context,
	site *sitesv1alpha1.StaticSite) error {

	log := log.FromContext(ctx)
	status := &site.Status.AWS

	if status.DeployRole.Name == "" {
		return nil // Status doesn't have any role name.
	}

	svc := iam.New(r.AWS.sess)

	if _, err := svc.DeleteRolePolicyWithContext(ctx, &iam.DeleteRolePolicyInput{
		PolicyName: aws.String(status.DeployRole.Name),
		RoleName:   aws.String(status.DeployRole.Name),
	}); err != nil {
		if aerr, ok := err.(awserr.Error); !ok ||
			aerr.Code() != iam.ErrCodeNoSuchEntityException {
			return err
		}
	}

	if _, err := svc.DeleteRoleWithContext(ctx, &iam.DeleteRoleInput{
		RoleName: aws.String(status.DeployRole.Name),
	}); err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == iam.ErrCodeNoSuchEntityException {
			status.DeployRole = sitesv1alpha1.DeployRoleStatus{}
			return nil // Role doesn't exist.
		}
		return err
	}
	log.Info("Deploy role deleted", "role", status.DeployRole.Name)
	status.DeployRole = sitesv1alpha1.DeployRoleStatus{}
	return nil
}

func deployRoleName(site *sitesv1alpha1.StaticSite) string {
	if site.Spec.DeployRole.Name != "" {
		return site.Spec.DeployRole.Name
	}
	return site.Name + "-deploy"
}
