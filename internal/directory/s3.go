package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/outreach/internal/model"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// loadS3 fetches s3://bucket/key using the default AWS credential chain.
func loadS3(ctx context.Context, source string) ([]model.Contact, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return loadObject(ctx, s3.NewFromConfig(cfg), source)
}

func loadObject(ctx context.Context, client objectGetter, source string) ([]model.Contact, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse s3 url: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 source must look like s3://bucket/key")
	}

	format, err := FormatFromPath(key)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	return Parse(out.Body, format)
}
