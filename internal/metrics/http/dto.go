package http

import (
	"github.com/nekogravitycat/rental-backend/internal/pkg/money"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
)

type ChannelSummaryRequest struct {
	Days int `form:"days,default=30"`
}

type TopCitiesRequest struct {
	Limit int `form:"limit,default=5"`
}

type ChannelSummaryResponse struct {
	Channel           string      `json:"channel"`
	TotalReservations int         `json:"total_reservations"`
	TotalRevenue      money.Cents `json:"total_revenue"`
}

type CityResponse struct {
	City              string `json:"city"`
	TotalReservations int    `json:"total_reservations"`
}

func newChannelSummaryList(items []reservation.ChannelSummary) []ChannelSummaryResponse {
	out := make([]ChannelSummaryResponse, len(items))
	for i, s := range items {
		out[i] = ChannelSummaryResponse{
			Channel:           s.Channel,
			TotalReservations: s.Count,
			TotalRevenue:      s.Revenue,
		}
	}
	return out
}

func newCityList(items []reservation.CityCount) []CityResponse {
	out := make([]CityResponse, len(items))
	for i, c := range items {
		out[i] = CityResponse{City: c.City, TotalReservations: c.Count}
	}
	return out
}
