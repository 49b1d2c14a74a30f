package generate_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	generateSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

type stubUseCase struct {
	got  *generateSlots.Request
	resp *generateSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *generateSlots.Request) (*generateSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc GenerateSlotsUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/courts/{courtId}/slots/generate",
		middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/courts/3/slots/generate", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Generated(t *testing.T) {
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &generateSlots.Response{
		CourtID:      3,
		DayOfWeek:    time.Wednesday,
		Dates:        []time.Time{date},
		Windows:      []domain.SlotWindow{{StartTime: types.MustTimeString("18:00"), EndTime: types.MustTimeString("19:00")}},
		PricePerHour: 50000,
		Created:      1,
	}}

	rec := serve(uc, `{"dayOfWeek":3,"slotDurationMinutes":60,"windowStart":"18:00","windowEnd":"19:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.CourtID)
	assert.Equal(t, int64(1), uc.got.UserID)
	assert.Equal(t, time.Wednesday, uc.got.DayOfWeek)
	require.NotNil(t, uc.got.WindowStart)
	assert.Equal(t, "18:00", uc.got.WindowStart.String())
	assert.Nil(t, uc.got.PricePerHour)

	var resp GenerateSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"2026-03-04"}, resp.Dates)
	assert.Equal(t, 1, resp.Created)
}

func TestHandle_MissingDayOfWeek(t *testing.T) {
	rec := serve(&stubUseCase{}, `{"slotDurationMinutes":60}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_BookedConflictListsSlots(t *testing.T) {
	conflict := &generateSlots.ConflictError{Conflicts: []domain.SlotConflict{{
		SlotID:    5,
		Date:      time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString("18:00"),
		BookingID: ptr.Ptr(int64(9)),
	}}}
	uc := &stubUseCase{err: fmt.Errorf("%w: %w", generateSlots.ErrSlotsBooked, conflict)}

	rec := serve(uc, `{"dayOfWeek":3,"slotDurationMinutes":60}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp ConflictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(5), resp.Conflicts[0].SlotID)
	assert.Equal(t, "2026-03-04", resp.Conflicts[0].Date)
	assert.Equal(t, int64(9), *resp.Conflicts[0].BookingID)
}

func TestHandle_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{generateSlots.ErrAccessDenied, http.StatusForbidden},
		{generateSlots.ErrCourtNotFound, http.StatusNotFound},
		{generateSlots.ErrFacilityClosed, http.StatusUnprocessableEntity},
		{generateSlots.ErrEmptyWindow, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, `{"dayOfWeek":3,"slotDurationMinutes":60}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
