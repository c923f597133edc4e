package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// GCPSecretSource は Google Secret Manager から鍵を読む
type GCPSecretSource struct {
	client *secretmanager.Client
	name   string
}

func NewGCPSecretSource(ctx context.Context, projectID, secretName string) (*GCPSecretSource, error) {
	name, err := gcpSecretVersionName(projectID, secretName)
	if err != nil {
		return nil, err
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	return &GCPSecretSource{client: client, name: name}, nil
}

// gcpSecretVersionName は "projects/..." 形式ならそのまま、短い名前なら latest バージョンのリソース名にする
func gcpSecretVersionName(projectID, secretName string) (string, error) {
	secretName = strings.TrimSpace(secretName)
	if secretName == "" {
		return "", errors.New("gcp secret source: secret name is empty")
	}
	if strings.HasPrefix(secretName, "projects/") {
		if !strings.Contains(secretName, "/versions/") {
			secretName += "/versions/latest"
		}
		return secretName, nil
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return "", errors.New("gcp secret source: project id is empty")
	}
	// Secret Manager の ID に "/" は使えない
	secretID := strings.ReplaceAll(secretName, "/", "-")
	return "projects/" + projectID + "/secrets/" + secretID + "/versions/latest", nil
}

func (s *GCPSecretSource) Fetch(ctx context.Context) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: s.name})
	if err != nil {
		return "", fmt.Errorf("AccessSecretVersion failed (%s): %w", s.name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("empty payload (%s)", s.name)
	}
	return string(resp.Payload.Data), nil
}

func (s *GCPSecretSource) Close() error {
	return s.client.Close()
}
