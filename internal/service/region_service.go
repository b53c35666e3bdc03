package service

import (
	"context"
	"fmt"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// defaultRegions are the sixteen Ghana regions with centroid coordinates.
// Seeding them is explicit and optional, unlike the industry reference list.
var defaultRegions = []model.Region{
	{Name: "Greater Accra", Country: "Ghana", Latitude: 5.6037, Longitude: -0.1870},
	{Name: "Ashanti", Country: "Ghana", Latitude: 6.6666, Longitude: -1.6163},
	{Name: "Western", Country: "Ghana", Latitude: 4.9167, Longitude: -1.7607},
	{Name: "Western North", Country: "Ghana", Latitude: 6.6667, Longitude: -2.2600},
	{Name: "Central", Country: "Ghana", Latitude: 5.1214, Longitude: -1.3442},
	{Name: "Eastern", Country: "Ghana", Latitude: 6.0455, Longitude: -0.2474},
	{Name: "Volta", Country: "Ghana", Latitude: 6.5786, Longitude: 0.4726},
	{Name: "Oti", Country: "Ghana", Latitude: 8.0500, Longitude: 0.3667},
	{Name: "Northern", Country: "Ghana", Latitude: 9.4008, Longitude: -0.8393},
	{Name: "Savannah", Country: "Ghana", Latitude: 8.3500, Longitude: -1.0833},
	{Name: "North East", Country: "Ghana", Latitude: 9.6500, Longitude: -0.2500},
	{Name: "Upper East", Country: "Ghana", Latitude: 10.6856, Longitude: -0.2076},
	{Name: "Upper West", Country: "Ghana", Latitude: 10.2833, Longitude: -2.2333},
	{Name: "Bono", Country: "Ghana", Latitude: 7.7333, Longitude: -2.0833},
	{Name: "Bono East", Country: "Ghana", Latitude: 7.9000, Longitude: -1.7333},
	{Name: "Ahafo", Country: "Ghana", Latitude: 7.3500, Longitude: -2.3000},
}

// RegionInput represents data required to create or update a region.
type RegionInput struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Weight    float64
	Color     string
	Notes     string
}

// RegionService wraps region-related business logic.
type RegionService struct {
	regionRepo *repository.RegionRepository
}

func NewRegionService(regionRepo *repository.RegionRepository) *RegionService {
	return &RegionService{regionRepo: regionRepo}
}

func (s *RegionService) CreateRegion(ctx context.Context, input RegionInput) (*model.Region, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	region := model.Region{
		Name:      input.Name,
		Country:   input.Country,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Weight:    input.Weight,
		Color:     input.Color,
		Notes:     input.Notes,
	}
	if region.Weight == 0 {
		region.Weight = 1.0
	}
	if err := s.regionRepo.Create(ctx, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (s *RegionService) ListRegions(ctx context.Context) ([]model.Region, error) {
	return s.regionRepo.List(ctx)
}

func (s *RegionService) GetRegion(ctx context.Context, id uint) (*model.Region, error) {
	return s.regionRepo.GetByID(ctx, id)
}

func (s *RegionService) UpdateRegion(ctx context.Context, id uint, input RegionInput) (*model.Region, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	region, err := s.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	region.Name = input.Name
	region.Country = input.Country
	region.Latitude = input.Latitude
	region.Longitude = input.Longitude
	region.Weight = input.Weight
	region.Color = input.Color
	region.Notes = input.Notes

	if err := s.regionRepo.Update(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *RegionService) DeleteRegion(ctx context.Context, id uint) error {
	return s.regionRepo.Delete(ctx, id)
}

// SeedDefaults inserts any of the default Ghana regions missing by name so the
// map always has all sixteen zones to color. Existing rows are left alone.
func (s *RegionService) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := s.regionRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, region := range existing {
		have[region.Name] = true
	}

	added := 0
	for _, region := range defaultRegions {
		if have[region.Name] {
			continue
		}
		seed := region
		seed.Weight = 1.0
		seed.Color = "#1f77b4"
		if err := s.regionRepo.Create(ctx, &seed); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
