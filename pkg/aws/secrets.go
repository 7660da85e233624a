package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretsAPI is the slice of the Secrets Manager client the loader
// needs, so tests can substitute a fake.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient reads configuration secrets from AWS Secrets Manager.
// Values are memoized for the lifetime of the process; secrets are
// only consulted at startup, so there is no TTL or refresh.
type SecretsClient struct {
	api    secretsAPI
	mu     sync.Mutex
	values map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		api:    secretsmanager.NewFromConfig(cfg),
		values: make(map[string]string),
	}
}

// GetSecret returns the string value of a named secret.
func (c *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	v, ok := c.values[name]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	c.mu.Lock()
	c.values[name] = *out.SecretString
	c.mu.Unlock()
	return *out.SecretString, nil
}

// GetSecretJSON decodes a secret holding a flat JSON object of
// key/value pairs, the layout used for grouped credentials such as
// the payment gateway keys.
func (c *SecretsClient) GetSecretJSON(ctx context.Context, name string) (map[string]string, error) {
	raw, err := c.GetSecret(ctx, name)
	if err != nil {
		return nil, err
	}
	var kv map[string]string
	if err := json.Unmarshal([]byte(raw), &kv); err != nil {
		return nil, fmt.Errorf("decode secret %s: %w", name, err)
	}
	return kv, nil
}
