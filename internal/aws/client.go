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
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// ErrWaiting signals that a cloud resource is not ready yet and the
// reconcile should be retried later rather than treated as failed.
var ErrWaiting = errors.New("waiting for cloud resource")

type AWSConfig struct {
	AccountID string `yaml:"accountID"`
	Region    string `yaml:"region"`
	Auth      struct {
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"auth"`
	OIDC struct {
		Provider string `yaml:"provider"`
	} `yaml:"oidc"`
	// Directory holding the JSON policy document templates
	Templates string `yaml:"templates"`
}

type AWSClient struct {
	config AWSConfig
	sess   *session.Session
	// CloudFront distributions and the certificates they serve live in
	// us-east-1 regardless of where the bucket is.
	usEast1 *session.Session
}

func (c *AWSClient) Initialise(config AWSConfig) error {
	c.config = config

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.Region),
	})
	if err != nil {
		fmt.Println("Error creating AWS session ", err)
		return err
	}
	c.sess = sess

	if c.usEast1, err = session.NewSession(&aws.Config{
		Region: aws.String("us-east-1"),
	}); err != nil {
		fmt.Println("Error creating us-east-1 AWS session ", err)
		return err
	}
	return nil
}

func (c *AWSClient) Enabled() bool {
	return c.sess != nil
}

func (c *AWSClient) Region() string {
	return c.config.Region
}
