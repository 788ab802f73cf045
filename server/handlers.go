package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teodorv/medcycle/chat"
	"github.com/teodorv/medcycle/disposal"
	"github.com/teodorv/medcycle/geo"
	"github.com/teodorv/medcycle/retry"
)

type recommendationRequest struct {
	MedicineInfo *disposal.MedicineState `json:"medicineInfo" binding:"required"`
	Location     string                  `json:"location"`
}

type recommendationResponse struct {
	Recommendation disposal.Kind        `json:"recommendation"`
	Reasoning      string               `json:"reasoning"`
	Instructions   []string             `json:"instructions"`
	Resources      []string             `json:"resources"`
	Warnings       []string             `json:"warnings"`
	NearbyCenters  []geo.RankedFacility `json:"nearbyCenters,omitempty"`
	CentersSource  string               `json:"centersSource,omitempty"`
}

// handleRecommendation classifies the medicine state and, when the verdict
// is donate and a location was supplied, enriches the response with ranked
// nearby donation centers. Enrichment failures degrade to the static
// fallback list; they never fail the request.
func (s *Server) handleRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "medicineInfo is required: " + err.Error()})
		return
	}

	d := disposal.Classify(*req.MedicineInfo, time.Now())
	resp := recommendationResponse{
		Recommendation: d.Kind,
		Reasoning:      d.Reasoning,
		Instructions:   d.Instructions,
		Resources:      d.Resources,
		Warnings:       d.Warnings,
	}

	if d.Kind == disposal.KindDonate && req.Location != "" {
		centers, source := s.lookupCenters(c.Request.Context(), req.Location)
		resp.NearbyCenters = centers
		resp.CentersSource = source
	}

	c.JSON(http.StatusOK, resp)
}

type donationCentersResponse struct {
	Centers        []geo.RankedFacility `json:"centers"`
	GeocodedCenter *geo.Coordinates     `json:"geocodedCenter,omitempty"`
	Source         string               `json:"source"`
}

// handleDonationCenters finds donation-capable facilities near a free-text
// location or an explicit lat/lng pair.
func (s *Server) handleDonationCenters(c *gin.Context) {
	location := c.Query("location")
	latStr, lngStr := c.Query("lat"), c.Query("lng")

	var origin geo.Coordinates
	switch {
	case latStr != "" && lngStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be numbers"})
			return
		}
		origin = geo.Coordinates{Lat: lat, Lon: lng}

		centers, source := s.centersNear(c.Request.Context(), origin)
		c.JSON(http.StatusOK, donationCentersResponse{
			Centers:        centers,
			GeocodedCenter: &origin,
			Source:         source,
		})
		return

	case location != "":
		coords, err := retry.Do(c.Request.Context(), func(ctx context.Context) (geo.Coordinates, error) {
			return s.geo.Geocode(ctx, location)
		}, retry.WithMaxAttempts(s.cfg.MaxAttempts), retry.WithInitialDelay(s.cfg.RetryDelay))
		if err != nil {
			s.logger.Warn("geocoding failed, serving fallback centers", "location", location, "error", err)
			c.JSON(http.StatusOK, donationCentersResponse{
				Centers: fallbackCenters(),
				Source:  "fallback",
			})
			return
		}
		origin = coords

		centers, source := s.centersNear(c.Request.Context(), origin)
		c.JSON(http.StatusOK, donationCentersResponse{
			Centers:        centers,
			GeocodedCenter: &origin,
			Source:         source,
		})
		return

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "location or lat/lng query parameters are required"})
	}
}

// lookupCenters geocodes a free-text location and finds ranked centers,
// caching results by normalized location text.
func (s *Server) lookupCenters(ctx context.Context, location string) ([]geo.RankedFacility, string) {
	cached, err := s.centersCache.GetOrFill(location, func() (any, error) {
		coords, err := retry.Do(ctx, func(ctx context.Context) (geo.Coordinates, error) {
			return s.geo.Geocode(ctx, location)
		}, retry.WithMaxAttempts(s.cfg.MaxAttempts), retry.WithInitialDelay(s.cfg.RetryDelay))
		if err != nil {
			return nil, err
		}

		facilities, err := retry.Do(ctx, func(ctx context.Context) ([]geo.Facility, error) {
			return s.geo.FindNearbyFacilities(ctx, coords, s.cfg.SearchRadiusKm)
		}, retry.WithMaxAttempts(s.cfg.MaxAttempts), retry.WithInitialDelay(s.cfg.RetryDelay))
		if err != nil {
			return nil, err
		}

		return geo.RankByDistance(coords, facilities, s.cfg.SearchRadiusKm), nil
	})
	if err != nil {
		s.logger.Warn("center lookup failed, serving fallback centers", "location", location, "error", err)
		return fallbackCenters(), "fallback"
	}
	return cached.([]geo.RankedFacility), "overpass"
}

// centersNear finds ranked centers around known coordinates.
func (s *Server) centersNear(ctx context.Context, origin geo.Coordinates) ([]geo.RankedFacility, string) {
	facilities, err := retry.Do(ctx, func(ctx context.Context) ([]geo.Facility, error) {
		return s.geo.FindNearbyFacilities(ctx, origin, s.cfg.SearchRadiusKm)
	}, retry.WithMaxAttempts(s.cfg.MaxAttempts), retry.WithInitialDelay(s.cfg.RetryDelay))
	if err != nil {
		s.logger.Warn("facility lookup failed, serving fallback centers", "error", err)
		return fallbackCenters(), "fallback"
	}
	return geo.RankByDistance(origin, facilities, s.cfg.SearchRadiusKm), "overpass"
}

func (s *Server) handleGuidelines(c *gin.Context) {
	c.JSON(http.StatusOK, disposal.DefaultGuidelines())
}

type chatStartResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleChatStart(c *gin.Context) {
	session, err := s.chat.Start()
	if err != nil {
		s.logger.Error("failed to start chat session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start chat session"})
		return
	}
	c.JSON(http.StatusOK, chatStartResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

type chatMessageRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (s *Server) handleChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and message are required"})
		return
	}

	reply, err := s.chat.SendMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		s.logger.Error("chat message failed", "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (s *Server) handleChatHistory(c *gin.Context) {
	history, err := s.chat.History(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

type chatEndRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

func (s *Server) handleChatEnd(c *gin.Context) {
	var req chatEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	if err := s.chat.End(req.SessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ended": true})
}
