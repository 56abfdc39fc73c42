package database

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/yoquelvisdev08/factura/internal/config"
)

// StorageClient representa el cliente de almacenamiento de archivos sobre
// el endpoint S3 de Supabase Storage. Guarda los PDFs generados y los
// adjuntos de los documentos.
type StorageClient struct {
	s3Client *s3.Client
	config   *config.StorageConfig
	logger   *logrus.Logger
	bucket   string
}

// NewStorageClient crea una nueva instancia del cliente de almacenamiento
func NewStorageClient(cfg *config.StorageConfig, logger *logrus.Logger) (*StorageClient, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			SigningRegion:     cfg.Region,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true // Importante para Supabase
	})

	return &StorageClient{
		s3Client: s3Client,
		config:   cfg,
		logger:   logger,
		bucket:   cfg.Bucket,
	}, nil
}

// HealthCheck verifica la conexión al almacenamiento
func (s *StorageClient) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("error checking storage connection: %w", err)
	}

	return nil
}

// UploadFile sube un archivo al bucket y retorna su ruta
func (s *StorageClient) UploadFile(ctx context.Context, fileName string, fileData []byte, contentType string) (string, error) {
	reader := bytes.NewReader(fileData)

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(fileName),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileData))),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading file to storage: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"file":   fileName,
		"size":   len(fileData),
	}).Info("File uploaded to storage")

	return fileName, nil
}

// DownloadFile descarga un archivo del bucket
func (s *StorageClient) DownloadFile(ctx context.Context, fileName string) ([]byte, error) {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		return nil, fmt.Errorf("error downloading file from storage: %w", err)
	}
	defer result.Body.Close()

	fileData, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	return fileData, nil
}

// DeleteFile elimina un archivo del bucket
func (s *StorageClient) DeleteFile(ctx context.Context, fileName string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		return fmt.Errorf("error deleting file from storage: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"file":   fileName,
	}).Info("File deleted from storage")

	return nil
}

// PublicURL retorna la URL pública de un archivo del bucket
func (s *StorageClient) PublicURL(fileName string) string {
	return fmt.Sprintf("%s/%s/%s", s.config.Endpoint, s.bucket, fileName)
}
