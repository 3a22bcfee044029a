// internal/infra/secrets/provider.go
package secrets

import (
	"context"
	"errors"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Provider resolves secrets env-first with a Secret Manager fallback, so
// local runs work from the environment and deployed runs pull from SM.
type Provider struct {
	sm        *secretmanager.Client
	projectID string
}

// NewProvider accepts a nil client; Resolve then only consults the env.
func NewProvider(sm *secretmanager.Client, projectID string) *Provider {
	return &Provider{sm: sm, projectID: strings.TrimSpace(projectID)}
}

// Resolve returns the env value for envKey when set, otherwise the latest
// version of secretName from Secret Manager. An empty result is not an error;
// callers decide whether the secret is required.
func (p *Provider) Resolve(ctx context.Context, envKey, secretName string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v, nil
	}
	if p == nil || p.sm == nil {
		return "", nil
	}
	if p.projectID == "" {
		return "", errors.New("secrets: projectID is empty")
	}
	secretName = strings.TrimSpace(secretName)
	if secretName == "" {
		return "", errors.New("secrets: secret name is empty")
	}

	name := "projects/" + p.projectID + "/secrets/" + secretName + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
