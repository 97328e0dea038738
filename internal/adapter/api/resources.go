package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
)

// ErrEmptyToken is returned when a login response carries no token.
var ErrEmptyToken = errors.New("login response contained no token")

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// GetAlerts fetches GET /api/alerts.
func (c *Client) GetAlerts(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.Get(ctx, "/api/alerts", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetLocations fetches GET /api/locations.
func (c *Client) GetLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	if err := c.Get(ctx, "/api/locations", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetReadings fetches GET /api/readings.
func (c *Client) GetReadings(ctx context.Context) ([]domain.Reading, error) {
	var readings []domain.Reading
	if err := c.Get(ctx, "/api/readings", &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// GetReports fetches GET /api/reports.
func (c *Client) GetReports(ctx context.Context) ([]domain.Report, error) {
	var reports []domain.Report
	if err := c.Get(ctx, "/api/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// DownloadReport fetches the binary body of GET /api/reports/{id}/download.
func (c *Client) DownloadReport(ctx context.Context, id string) (Download, error) {
	if id == "" {
		return Download{}, errors.New("report id is required")
	}
	return c.Download(ctx, fmt.Sprintf("/api/reports/%s/download", url.PathEscape(id)))
}

// Login posts credentials to /api/login and returns the issued token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp loginResponse
	if err := c.Post(ctx, "/api/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}
