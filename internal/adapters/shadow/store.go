// Package shadow talks to the device-shadow service. The core treats it as a
// key-value store of state documents keyed by device id.
package shadow

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"

	"github.com/moonchanyong/arom-server/internal/domain"
)

type Store interface {
	Get(ctx context.Context, deviceID string) (*domain.ShadowDocument, error)
	Update(ctx context.Context, deviceID string, state domain.ShadowState) error
}

type iotStore struct {
	client *iotdataplane.Client
}

func NewIoTStore(client *iotdataplane.Client) Store {
	return &iotStore{client: client}
}

func (s *iotStore) Get(ctx context.Context, deviceID string) (*domain.ShadowDocument, error) {
	out, err := s.client.GetThingShadow(ctx, &iotdataplane.GetThingShadowInput{
		ThingName: aws.String(deviceID),
	})
	if err != nil {
		return nil, err
	}
	var doc domain.ShadowDocument
	if err := json.Unmarshal(out.Payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *iotStore) Update(ctx context.Context, deviceID string, state domain.ShadowState) error {
	payload, err := json.Marshal(domain.ShadowDocument{State: state})
	if err != nil {
		return err
	}
	_, err = s.client.UpdateThingShadow(ctx, &iotdataplane.UpdateThingShadowInput{
		ThingName: aws.String(deviceID),
		Payload:   payload,
	})
	return err
}
