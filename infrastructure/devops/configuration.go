package devops

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	mu    sync.Mutex
	cache = map[string]string{}
)

// LoadParameter reads a decrypted SSM parameter once per process.
func LoadParameter(ctx context.Context, name string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if v, ok := cache[name]; ok {
		return v, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s is empty", name)
	}

	cache[name] = *out.Parameter.Value
	return cache[name], nil
}

// LoadYAMLParameter decodes a YAML document stored in SSM into out.
func LoadYAMLParameter(ctx context.Context, name string, out interface{}) error {
	value, err := LoadParameter(ctx, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}
