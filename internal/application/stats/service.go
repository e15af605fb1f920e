package stats

import (
	"context"
	"sort"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// HostStats summarizes a host's portfolio for the dashboard.
type HostStats struct {
	TotalListings     int64 `json:"total_listings"`
	PublishedListings int64 `json:"published_listings"`
	DraftListings     int64 `json:"draft_listings"`
	TotalViews7d      int64 `json:"total_views_7d"`
	TotalViews30d     int64 `json:"total_views_30d"`
	TotalFavorites    int64 `json:"total_favorites"`
}

// HostStats aggregates counts over the host's properties.
func (s *Service) HostStats(ctx context.Context, ownerID uuid.UUID) (*HostStats, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Model(&domain.Property{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	result := &HostStats{TotalListings: int64(len(ids))}
	if len(ids) == 0 {
		return result, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&domain.Property{}).
		Where("owner_id = ? AND status = ?", ownerID, constants.StatusPublished).
		Count(&result.PublishedListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Property{}).
		Where("owner_id = ? AND status = ?", ownerID, constants.StatusDraft).
		Count(&result.DraftListings).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(&domain.PropertyView{}).
		Where("property_id IN ? AND viewed_at >= ?", ids, now.AddDate(0, 0, -7)).
		Count(&result.TotalViews7d).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.PropertyView{}).
		Where("property_id IN ? AND viewed_at >= ?", ids, now.AddDate(0, 0, -30)).
		Count(&result.TotalViews30d).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Favorite{}).
		Where("property_id IN ?", ids).
		Count(&result.TotalFavorites).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// AdminStats summarizes the whole platform.
type AdminStats struct {
	TotalUsers          int64   `json:"total_users"`
	TotalRenters        int64   `json:"total_renters"`
	TotalHosts          int64   `json:"total_hosts"`
	TotalProperties     int64   `json:"total_properties"`
	PublishedProperties int64   `json:"published_properties"`
	TotalFavorites      int64   `json:"total_favorites"`
	TotalViews          int64   `json:"total_views"`
	TotalRevenue        float64 `json:"total_revenue"`
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.DB.WithContext(ctx)
	result := &AdminStats{}

	if err := db.Model(&domain.Profile{}).Count(&result.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.UserRole{}).
		Where("role = ?", constants.RoleRenter).
		Count(&result.TotalRenters).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.UserRole{}).
		Where("role = ?", constants.RoleHost).
		Count(&result.TotalHosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Property{}).Count(&result.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Property{}).
		Where("status = ?", constants.StatusPublished).
		Count(&result.PublishedProperties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Favorite{}).Count(&result.TotalFavorites).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.PropertyView{}).Count(&result.TotalViews).Error; err != nil {
		return nil, err
	}

	var revenue *float64
	if err := db.Model(&domain.Promotion{}).
		Select("SUM(amount_paid)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		result.TotalRevenue = *revenue
	}
	return result, nil
}

// ViewsPoint is one day of view counts.
type ViewsPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ViewsOverTime buckets view events per day over the trailing window,
// filling days without views with zero.
func (s *Service) ViewsOverTime(ctx context.Context, days int) ([]ViewsPoint, error) {
	if days <= 0 {
		days = 30
	}
	start := time.Now().AddDate(0, 0, -days)

	var views []domain.PropertyView
	err := s.DB.WithContext(ctx).
		Where("viewed_at >= ?", start).
		Find(&views).Error
	if err != nil {
		return nil, err
	}

	grouped := map[string]int64{}
	for _, v := range views {
		grouped[v.ViewedAt.UTC().Format("2006-01-02")]++
	}

	points := make([]ViewsPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, ViewsPoint{Date: date, Count: grouped[date]})
	}
	return points, nil
}

// CityCount is the number of properties in one city.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// PropertiesByCity returns the top 10 cities by property count.
func (s *Service) PropertiesByCity(ctx context.Context) ([]CityCount, error) {
	var cities []string
	err := s.DB.WithContext(ctx).
		Model(&domain.Property{}).
		Pluck("city", &cities).Error
	if err != nil {
		return nil, err
	}

	grouped := map[string]int64{}
	for _, c := range cities {
		grouped[c]++
	}
	counts := make([]CityCount, 0, len(grouped))
	for city, n := range grouped {
		counts = append(counts, CityCount{City: city, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].City < counts[j].City
	})
	if len(counts) > 10 {
		counts = counts[:10]
	}
	return counts, nil
}
