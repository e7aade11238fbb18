package booking

import (
	"context"
	"time"

	"github.com/parlorworks/salon-scheduler/internal/cache"
	domain "github.com/parlorworks/salon-scheduler/internal/domain/booking"
	"github.com/parlorworks/salon-scheduler/internal/dto"
	"github.com/parlorworks/salon-scheduler/internal/timezone"
)

const (
	dashboardCacheKey = "admin:dashboard"
	dashboardCacheTTL = 30 * time.Second
	recentLimit       = 10
)

type DashboardData struct {
	domain.DashboardCounts
	RecentBookings []dto.BookingListDTO `json:"recentBookings"`
}

// Dashboard computes the admin aggregate view by filtering, with a short
// redis cache in front since every count is a full scan.
type Dashboard struct {
	repo     domain.Repository
	cache    *cache.Cache
	timezone string
}

func NewDashboard(repo domain.Repository, c *cache.Cache, tz string) *Dashboard {
	return &Dashboard{repo: repo, cache: c, timezone: tz}
}

func (uc *Dashboard) Execute(ctx context.Context) (*DashboardData, error) {

	var cached DashboardData
	if uc.cache.GetJSON(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	now := timezone.NowIn(uc.timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts, err := uc.repo.CountDashboard(ctx, today)
	if err != nil {
		return nil, err
	}

	recent, err := uc.repo.ListRecentBookings(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		DashboardCounts: *counts,
		RecentBookings:  dto.FromBookings(recent),
	}

	uc.cache.SetJSON(ctx, dashboardCacheKey, data, dashboardCacheTTL)

	return data, nil
}
