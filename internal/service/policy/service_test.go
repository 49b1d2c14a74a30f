package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const (
	adminID    = 1
	userID     = 7
	facilityID = 10
)

func newService(t *testing.T) *Service {
	t.Helper()

	store := memory.NewStore()
	store.AddCourt(domain.Court{ID: 1, FacilityID: facilityID, Name: "Court 1", PricePerHour: 50000, IsActive: true})
	store.AddCourt(domain.Court{ID: 2, FacilityID: 20, Name: "Other", PricePerHour: 50000, IsActive: true})

	return NewService(store.Policies(), store.Facilities(), domain.NewAdmins([]int64{adminID}), logger.NewNop())
}

func TestService_Upsert_CreatesThenUpdates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{
		UserID:                adminID,
		FacilityID:            facilityID,
		CancellationFeeBps:    ptr.Ptr[int64](2500),
		FreeCancellationHours: ptr.Ptr(24),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), created.CancellationFeeBps)
	assert.Equal(t, 24, created.FreeCancellationHours)
	assert.Nil(t, created.CourtID)

	updated, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{
		UserID:          adminID,
		FacilityID:      facilityID,
		ModificationFee: ptr.Ptr[int64](1000),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(2500), updated.CancellationFeeBps, "fields not sent stay unchanged")
	assert.Equal(t, int64(1000), updated.ModificationFee)

	list, err := svc.GetAllByFacility(ctx, facilityID)
	require.NoError(t, err)
	assert.Len(t, list.Policies, 1)
}

func TestService_GetEffective_Hierarchy(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	courtID := int64(1)

	_, err := svc.GetEffective(ctx, facilityID, &courtID)
	assert.ErrorIs(t, err, ErrPolicyNotFound)

	_, err = svc.Upsert(ctx, &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, ModificationFee: ptr.Ptr[int64](500)})
	require.NoError(t, err)

	effective, err := svc.GetEffective(ctx, facilityID, &courtID)
	require.NoError(t, err)
	assert.Nil(t, effective.CourtID)
	assert.Equal(t, int64(500), effective.ModificationFee)

	_, err = svc.Upsert(ctx, &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, CourtID: &courtID, ModificationFee: ptr.Ptr[int64](900)})
	require.NoError(t, err)

	effective, err = svc.GetEffective(ctx, facilityID, &courtID)
	require.NoError(t, err)
	require.NotNil(t, effective.CourtID)
	assert.Equal(t, int64(900), effective.ModificationFee)

	facilityWide, err := svc.GetEffective(ctx, facilityID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(500), facilityWide.ModificationFee)
}

func TestService_Upsert_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *models.UpsertPolicyRequest
		wantErr error
	}{
		{
			name:    "not an admin",
			req:     &models.UpsertPolicyRequest{UserID: userID, FacilityID: facilityID},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown court",
			req:     &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, CourtID: ptr.Ptr[int64](99)},
			wantErr: ErrCourtNotFound,
		},
		{
			name:    "court of another facility",
			req:     &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, CourtID: ptr.Ptr[int64](2)},
			wantErr: ErrCourtNotFound,
		},
		{
			name:    "bps above 100%",
			req:     &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, CancellationFeeBps: ptr.Ptr[int64](10001)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative modification fee",
			req:     &models.UpsertPolicyRequest{UserID: adminID, FacilityID: facilityID, ModificationFee: ptr.Ptr[int64](-1)},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
