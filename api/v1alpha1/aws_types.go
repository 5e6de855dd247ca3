package v1alpha1

type BucketSpec struct {
	// Bucket name, defaults to the apex domain
	Name string `json:"name,omitempty"`
	// Object served for directory requests, defaults to index.html
	IndexDocument string `json:"indexDocument,omitempty"`
	// Object served for 4xx errors, defaults to error.html
	ErrorDocument string `json:"errorDocument,omitempty"`
	// Enable object versioning
	Versioning bool `json:"versioning,omitempty"`
	// Bucket access: private (reads go through the distribution only) or
	// public-read (S3 website hosting with a public bucket policy)
	ACL string `json:"acl,omitempty"`
}

const (
	ACLPrivate    = "private"
	ACLPublicRead = "public-read"
)

type CDNSpec struct {
	// CloudFront price class, defaults to PriceClass_100
	PriceClass string `json:"priceClass,omitempty"`
	// Object served for the root URL, defaults to the bucket index document
	DefaultRootObject string `json:"defaultRootObject,omitempty"`
	// Viewer protocol policy, defaults to redirect-to-https
	ViewerProtocolPolicy string `json:"viewerProtocolPolicy,omitempty"`
	// Cache TTLs in seconds
	MinTTL     *int64 `json:"minTTL,omitempty"`
	DefaultTTL *int64 `json:"defaultTTL,omitempty"`
	MaxTTL     *int64 `json:"maxTTL,omitempty"`
	// Serve over IPv6 as well as IPv4
	IPv6 bool `json:"ipv6,omitempty"`
}

type CertificateSpec struct {
	// Additional subject alternative names beyond the apex and subdomain
	SubjectAlternativeNames []string `json:"subjectAlternativeNames,omitempty"`
}

type DeployRoleSpec struct {
	// Role name
	Name string `json:"name,omitempty"`
	// Service account allowed to assume the role via the cluster OIDC
	// provider
	ServiceAccount string `json:"serviceAccount,omitempty"`
}

type AWSStatus struct {
	HostedZone   HostedZoneStatus   `json:"hostedZone,omitempty"`
	Bucket       BucketStatus       `json:"bucket,omitempty"`
	Certificate  CertificateStatus  `json:"certificate,omitempty"`
	Distribution DistributionStatus `json:"distribution,omitempty"`
	Records      []RecordStatus     `json:"records,omitempty"`
	DeployRole   DeployRoleStatus   `json:"deployRole,omitempty"`
}

type HostedZoneStatus struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type BucketStatus struct {
	Name string `json:"name,omitempty"`
	ARN  string `json:"arn,omitempty"`
	// Regional bucket endpoint used as the distribution origin
	RegionalDomainName string `json:"regionalDomainName,omitempty"`
	// S3 website endpoint, set only for public-read sites
	WebsiteEndpoint string `json:"websiteEndpoint,omitempty"`
	VersioningState string `json:"versioningState,omitempty"`
}

type CertificateStatus struct {
	ARN string `json:"arn,omitempty"`
	// ACM certificate status: PENDING_VALIDATION, ISSUED, FAILED, ...
	State string `json:"state,omitempty"`
	// DNS validation records published into the hosted zone
	ValidationRecords []RecordStatus `json:"validationRecords,omitempty"`
}

type DistributionStatus struct {
	ID  string `json:"id,omitempty"`
	ARN string `json:"arn,omitempty"`
	// Distribution domain name, e.g. d111111abcdef8.cloudfront.net
	DomainName string `json:"domainName,omitempty"`
	// Origin access control attached to the S3 origin
	OriginAccessControlID string `json:"originAccessControlID,omitempty"`
	// Distribution state as reported by CloudFront: Deployed, InProgress
	State string `json:"state,omitempty"`
	// Set during teardown once the distribution has been disabled
	Disabled bool `json:"disabled,omitempty"`
}

type RecordStatus struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

type DeployRoleStatus struct {
	Name string `json:"name,omitempty"`
	ARN  string `json:"arn,omitempty"`
}
