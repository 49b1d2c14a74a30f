package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/facility"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/policy"
)

// FacilityRepository is the in-memory counterpart of facility.Repository
type FacilityRepository struct {
	store *Store
}

// Facilities returns the facility repository of the store
func (s *Store) Facilities() *FacilityRepository {
	return &FacilityRepository{store: s}
}

// GetCourt returns a court by id
func (r *FacilityRepository) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	defer r.store.lock(ctx)()

	court, ok := r.store.data.courts[courtID]
	if !ok {
		return nil, facility.ErrCourtNotFound
	}
	return &court, nil
}

// GetOperatingHours returns the opening window of a facility for a weekday
func (r *FacilityRepository) GetOperatingHours(ctx context.Context, facilityID int64, day time.Weekday) (*domain.OperatingHours, error) {
	defer r.store.lock(ctx)()

	hours, ok := r.store.data.hours[hoursKey{facilityID: facilityID, day: day}]
	if !ok {
		return nil, facility.ErrHoursNotFound
	}
	return &hours, nil
}

// CouponRepository is the in-memory counterpart of coupon.Repository
type CouponRepository struct {
	store *Store
}

// Coupons returns the coupon repository of the store
func (s *Store) Coupons() *CouponRepository {
	return &CouponRepository{store: s}
}

func (r *CouponRepository) find(code string) (domain.Coupon, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range r.store.data.coupons {
		if strings.ToUpper(c.Code) == code {
			return c, true
		}
	}
	return domain.Coupon{}, false
}

// GetByCode returns a coupon by its case-insensitive code
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	defer r.store.lock(ctx)()

	c, ok := r.find(code)
	if !ok {
		return nil, coupon.ErrCouponNotFound
	}
	return &c, nil
}

// CountUserUsage returns how many bookings of the user redeemed the coupon
func (r *CouponRepository) CountUserUsage(ctx context.Context, couponID, userID int64) (int, error) {
	defer r.store.lock(ctx)()

	count := 0
	for _, u := range r.store.data.usages {
		if u.couponID == couponID && u.userID == userID {
			count++
		}
	}
	return count, nil
}

// CountPendingHolds counts pending bookings carrying the code, in total and for the user
func (r *CouponRepository) CountPendingHolds(ctx context.Context, code string, userID int64) (int, int, error) {
	defer r.store.lock(ctx)()

	code = strings.ToUpper(strings.TrimSpace(code))
	total, byUser := 0, 0
	for _, b := range r.store.data.bookings {
		if b.Status != domain.StatusPending || b.AppliedCouponCode == nil {
			continue
		}
		if strings.ToUpper(*b.AppliedCouponCode) != code {
			continue
		}
		total++
		if b.UserID == userID {
			byUser++
		}
	}
	return total, byUser, nil
}

// IncrementUsage records the redemption of the coupon by a booking
func (r *CouponRepository) IncrementUsage(ctx context.Context, code string, userID, bookingID int64) error {
	defer r.store.lock(ctx)()

	c, ok := r.find(code)
	if !ok {
		return coupon.ErrCouponNotFound
	}
	for _, u := range r.store.data.usages {
		if u.couponID == c.ID && u.bookingID == bookingID {
			return nil
		}
	}

	r.store.data.usages = append(r.store.data.usages, couponUsage{couponID: c.ID, userID: userID, bookingID: bookingID})
	c.UsedCount++
	r.store.data.coupons[c.ID] = c

	return nil
}

// DecrementUsage reverts the redemption of the coupon by a booking
func (r *CouponRepository) DecrementUsage(ctx context.Context, code string, bookingID int64) error {
	defer r.store.lock(ctx)()

	c, ok := r.find(code)
	if !ok {
		return coupon.ErrCouponNotFound
	}

	usages := r.store.data.usages[:0:0]
	removed := false
	for _, u := range r.store.data.usages {
		if u.couponID == c.ID && u.bookingID == bookingID {
			removed = true
			continue
		}
		usages = append(usages, u)
	}
	if !removed {
		return nil
	}

	r.store.data.usages = usages
	if c.UsedCount > 0 {
		c.UsedCount--
	}
	r.store.data.coupons[c.ID] = c

	return nil
}

// PolicyRepository is the in-memory counterpart of policy.Repository
type PolicyRepository struct {
	store *Store
}

// Policies returns the fee policy repository of the store
func (s *Store) Policies() *PolicyRepository {
	return &PolicyRepository{store: s}
}

// Create stores a new fee policy
func (r *PolicyRepository) Create(ctx context.Context, p *domain.FacilityPolicy) (*domain.FacilityPolicy, error) {
	defer r.store.lock(ctx)()

	now := r.store.clock()
	p.ID = r.store.data.nextID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.data.policies[p.ID] = *p

	return p, nil
}

// GetByFacilityAndCourt returns the policy of exactly one hierarchy level
func (r *PolicyRepository) GetByFacilityAndCourt(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error) {
	defer r.store.lock(ctx)()

	for _, p := range r.store.data.policies {
		if p.FacilityID != facilityID {
			continue
		}
		if courtID == nil && p.CourtID == nil {
			return &p, nil
		}
		if courtID != nil && p.CourtID != nil && *courtID == *p.CourtID {
			return &p, nil
		}
	}
	return nil, policy.ErrPolicyNotFound
}

// GetWithHierarchy returns the court policy, falling back to the facility policy
func (r *PolicyRepository) GetWithHierarchy(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error) {
	if courtID != nil {
		if p, err := r.GetByFacilityAndCourt(ctx, facilityID, courtID); err == nil {
			return p, nil
		}
	}
	return r.GetByFacilityAndCourt(ctx, facilityID, nil)
}

// GetAllByFacility returns every policy of a facility, facility-wide first
func (r *PolicyRepository) GetAllByFacility(ctx context.Context, facilityID int64) ([]*domain.FacilityPolicy, error) {
	defer r.store.lock(ctx)()

	result := make([]*domain.FacilityPolicy, 0)
	for _, p := range r.store.data.policies {
		if p.FacilityID == facilityID {
			p := p
			result = append(result, &p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CourtID == nil || result[j].CourtID == nil {
			return result[i].CourtID == nil && result[j].CourtID != nil
		}
		return *result[i].CourtID < *result[j].CourtID
	})

	return result, nil
}

// Update replaces the fee values of a policy
func (r *PolicyRepository) Update(ctx context.Context, id int64, p *domain.FacilityPolicy) (*domain.FacilityPolicy, error) {
	defer r.store.lock(ctx)()

	existing, ok := r.store.data.policies[id]
	if !ok {
		return nil, policy.ErrPolicyNotFound
	}

	existing.CancellationFeeBps = p.CancellationFeeBps
	existing.CancellationFlatFee = p.CancellationFlatFee
	existing.FreeCancellationHours = p.FreeCancellationHours
	existing.ModificationFee = p.ModificationFee
	existing.UpdatedAt = r.store.clock()
	r.store.data.policies[id] = existing

	p.ID = id
	p.FacilityID = existing.FacilityID
	p.CourtID = existing.CourtID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = existing.UpdatedAt

	return p, nil
}
