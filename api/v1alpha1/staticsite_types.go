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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

// StaticSite is the Schema for the staticsites API
type StaticSite struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   StaticSiteSpec   `json:"spec,omitempty"`
	Status StaticSiteStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// StaticSiteList contains a list of StaticSite
type StaticSiteList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []StaticSite `json:"items"`
}

func init() {
	SchemeBuilder.Register(&StaticSite{}, &StaticSiteList{})
}

// StaticSiteSpec defines the desired state of StaticSite
type StaticSiteSpec struct {
	// Apex domain the site is served under, e.g. example.com. A Route53
	// hosted zone for this domain must already exist.
	Domain string `json:"domain"`
	// Optional subdomain served alongside the apex, e.g. www
	Subdomain string `json:"subdomain,omitempty"`
	// Content bucket
	Bucket BucketSpec `json:"bucket,omitempty"`
	// CDN distribution
	CDN CDNSpec `json:"cdn,omitempty"`
	// TLS certificate
	Certificate CertificateSpec `json:"certificate,omitempty"`
	// Optional IAM role for publishing site content
	DeployRole *DeployRoleSpec `json:"deployRole,omitempty"`
}

// SiteHostnames returns all DNS names the site is served under, apex first.
func (s *StaticSiteSpec) SiteHostnames() []string {
	hostnames := []string{s.Domain}
	if s.Subdomain != "" {
		hostnames = append(hostnames, s.Subdomain+"."+s.Domain)
	}
	return hostnames
}

// BucketName returns the configured bucket name, defaulting to the apex
// domain.
func (s *StaticSiteSpec) BucketName() string {
	if s.Bucket.Name != "" {
		return s.Bucket.Name
	}
	return s.Domain
}

type StaticSiteStatus struct {
	// Coarse provisioning phase: Pending, Provisioning, Ready, Deleting
	Phase string `json:"phase,omitempty"`
	// AWS resource status
	AWS AWSStatus `json:"aws,omitempty"`
}

const (
	PhasePending      = "Pending"
	PhaseProvisioning = "Provisioning"
	PhaseReady        = "Ready"
	PhaseDeleting     = "Deleting"
)
