/*
Copyright 2025 Centavo Authors.

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

package cloudstorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/centavohq/centavo/config"
)

// S3Uploader stores attachment blobs in an S3-compatible bucket.
type S3Uploader struct {
	client   s3iface.S3API
	bucket   string
	endpoint string
	region   string
}

// NewS3Uploader builds an uploader from the loaded configuration. A custom
// endpoint switches the client into path-style addressing for S3-compatible
// stores.
func NewS3Uploader(conf *config.Configuration) (*S3Uploader, error) {
	awsConfig := &aws.Config{
		Region: aws.String(conf.S3Region),
	}
	if conf.AwsAccessKeyId != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(conf.AwsAccessKeyId, conf.AwsSecretAccessKey, "")
	}
	if conf.S3Endpoint != "" {
		awsConfig.Endpoint = aws.String(conf.S3Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &S3Uploader{
		client:   s3.New(sess),
		bucket:   conf.S3BucketName,
		endpoint: conf.S3Endpoint,
		region:   conf.S3Region,
	}, nil
}

// NewS3UploaderWithClient is the test seam: it wires an explicit S3 API
// implementation instead of a live session.
func NewS3UploaderWithClient(client s3iface.S3API, bucket, endpoint, region string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, endpoint: endpoint, region: region}
}

// Upload puts the blob under pathPrefix/fileName and returns the object URL.
// Transient failures are retried with exponential backoff for up to a minute.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, fileName, contentType, pathPrefix string) (string, error) {
	key := strings.TrimSuffix(pathPrefix, "/") + "/" + fileName

	operation := func() error {
		_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(u.endpoint, "/"), u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
