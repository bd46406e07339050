package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/adapters/shadow"
	"github.com/moonchanyong/arom-server/internal/domain"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

const notOwnerMessage = "This user is not owner of this device."

// DeviceState is the wire shape for device endpoints: the shadow state plus
// the display name from the caller's device map.
type DeviceState struct {
	Reported map[string]interface{} `json:"reported,omitempty"`
	Desired  map[string]interface{} `json:"desired,omitempty"`
	Name     string                 `json:"name,omitempty"`
}

type DeviceService struct {
	logger  pkglog.Logger
	users   mongodb.UserRepository
	shadows shadow.Store
}

func NewDeviceService(logger pkglog.Logger, users mongodb.UserRepository, shadows shadow.Store) *DeviceService {
	return &DeviceService{logger: logger, users: users, shadows: shadows}
}

// AuthorizeOwner gates state access: the shadow's reported owner must be the
// caller and the device must be in the caller's device map. A migration left
// some shadows with the owner wrapped in an array; those are corrected in
// place on read (legacy compatibility, not policy).
func (s *DeviceService) AuthorizeOwner(ctx context.Context, caller *domain.User, deviceID string) error {
	doc, err := s.shadows.Get(ctx, deviceID)
	if err != nil {
		return httperr.Internal("Device state cannot be found. Try Again.")
	}
	ownerID, needsFix := doc.State.OwnerID()
	if needsFix {
		fix := domain.ShadowState{Reported: map[string]interface{}{"owner_id": ownerID}}
		if err := s.shadows.Update(ctx, deviceID, fix); err != nil {
			s.logger.Warn().Err(err).Str("device_id", deviceID).Msg("owner_id normalization write failed")
		}
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return httperr.Unauthorized("This user is not found.")
		}
		return err
	}
	if _, registered := user.Devices[deviceID]; ownerID != user.UserID || !registered {
		return httperr.Unauthorized(notOwnerMessage)
	}
	return nil
}

// Register claims a device for the caller. The shadow's reported owner_id is
// the authoritative ownership marker; the caller's device map only records
// the claim.
func (s *DeviceService) Register(ctx context.Context, caller *domain.User, deviceID string) (*DeviceState, error) {
	doc, err := s.shadows.Get(ctx, deviceID)
	if err != nil {
		return nil, httperr.Internal("Device state cannot be found. Try Again.")
	}

	if _, registered := caller.Devices[deviceID]; registered {
		return nil, httperr.Conflict("Already Registered Device")
	}
	if owner, _ := doc.State.Reported["owner_id"].(string); owner != caller.UserID {
		return nil, httperr.Unauthorized(notOwnerMessage)
	}

	if err := s.users.AddDevice(ctx, caller.UserID, deviceID, deviceID); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", caller.UserID).Str("device_id", deviceID).Msg("device registered")
	return &DeviceState{
		Reported: doc.State.Reported,
		Desired:  doc.State.Desired,
		Name:     deviceID,
	}, nil
}

// GetState reads the shadow and touches desired.timestamp so the device can
// tell the app is watching. The state returned is the pre-touch read.
func (s *DeviceService) GetState(ctx context.Context, caller *domain.User, deviceID string) (*DeviceState, error) {
	doc, err := s.shadows.Get(ctx, deviceID)
	if err != nil {
		return nil, httperr.Internal("Device state cannot be found. Try Again.")
	}

	touch := domain.ShadowState{
		Desired: map[string]interface{}{"timestamp": nowMillis()},
	}
	if err := s.shadows.Update(ctx, deviceID, touch); err != nil {
		return nil, httperr.Internal("Device state cannot be updated. Try Again.")
	}

	return &DeviceState{
		Reported: doc.State.Reported,
		Desired:  doc.State.Desired,
		Name:     caller.Devices[deviceID],
	}, nil
}

// SetState pushes desired state to the shadow. A "name" key renames the
// device in the caller's map instead of reaching the shadow.
func (s *DeviceService) SetState(ctx context.Context, caller *domain.User, deviceID string, desired map[string]interface{}) (*DeviceState, error) {
	if desired == nil {
		desired = map[string]interface{}{}
	}
	desired["timestamp"] = nowMillis()

	name := caller.Devices[deviceID]
	if raw, ok := desired["name"]; ok {
		delete(desired, "name")
		if newName, ok := raw.(string); ok && newName != "" {
			if err := s.users.AddDevice(ctx, caller.UserID, deviceID, newName); err != nil {
				return nil, err
			}
			name = newName
		}
	}

	if err := s.shadows.Update(ctx, deviceID, domain.ShadowState{Desired: desired}); err != nil {
		return nil, httperr.Internal("Device state cannot be updated. Try Again.")
	}
	doc, err := s.shadows.Get(ctx, deviceID)
	if err != nil {
		return nil, httperr.Internal("Device state cannot be found. Try Again.")
	}

	return &DeviceState{
		Reported: doc.State.Reported,
		Desired:  doc.State.Desired,
		Name:     name,
	}, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
