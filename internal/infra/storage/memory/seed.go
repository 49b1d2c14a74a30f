package memory

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// AddCourt stores a court owned by the facility management surface
func (s *Store) AddCourt(court domain.Court) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.courts[court.ID] = court
	if court.ID > s.data.seq {
		s.data.seq = court.ID
	}
}

// SetOperatingHours stores the opening window of a facility for one weekday
func (s *Store) SetOperatingHours(hours domain.OperatingHours) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.hours[hoursKey{facilityID: hours.FacilityID, day: hours.DayOfWeek}] = hours
}

// AddCoupon stores a coupon and returns it with its id
func (s *Store) AddCoupon(c domain.Coupon) domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.data.nextID()
	s.data.coupons[c.ID] = c
	return c
}

// AddSlot stores a slot and returns it with its id
func (s *Store) AddSlot(slot domain.TimeSlot) domain.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	slot.ID = s.data.nextID()
	slot.Date = domain.NormalizeDate(slot.Date)
	slot.CreatedAt = now
	slot.UpdatedAt = now
	s.data.slots[slot.ID] = slot
	return slot
}

// SeedDemo fills the store with one facility open 06:00-22:00 every day, two
// courts and a welcome coupon, so the memory driver is usable out of the box
func (s *Store) SeedDemo(now time.Time) {
	const facilityID = 1

	s.AddCourt(domain.Court{ID: 1, FacilityID: facilityID, Name: "Court 1", SportType: "badminton", PricePerHour: 50000, Capacity: 4, IsActive: true})
	s.AddCourt(domain.Court{ID: 2, FacilityID: facilityID, Name: "Court 2", SportType: "pickleball", PricePerHour: 80000, Capacity: 4, IsActive: true})

	for day := time.Sunday; day <= time.Saturday; day++ {
		s.SetOperatingHours(domain.OperatingHours{
			FacilityID: facilityID,
			DayOfWeek:  day,
			OpenTime:   types.MustTimeString("06:00"),
			CloseTime:  types.MustTimeString("22:00"),
		})
	}

	maxDiscount := int64(8000)
	s.AddCoupon(domain.Coupon{
		Code:              "WELCOME20",
		DiscountType:      domain.DiscountPercentage,
		DiscountValue:     20,
		MaxDiscountAmount: &maxDiscount,
		ValidFrom:         now.AddDate(0, 0, -1),
		ValidUntil:        now.AddDate(1, 0, 0),
		IsActive:          true,
	})
}
