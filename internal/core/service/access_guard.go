package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// GeofenceConfig controls the optional country restriction.
type GeofenceConfig struct {
	Country string // expected ISO country code; empty disables the check
	Enforce bool   // false: only log mismatches
}

// AccessGuard enforces the per-banca IP whitelist and consults the geolocator.
// The two checks are independent: the whitelist is always enforced, the
// geofence only when configured to.
type AccessGuard struct {
	bancas   ports.BancaRepository
	geo      ports.GeoLocator
	geofence GeofenceConfig
	logger   zerolog.Logger
}

func NewAccessGuard(bancas ports.BancaRepository, geo ports.GeoLocator, geofence GeofenceConfig, logger zerolog.Logger) *AccessGuard {
	return &AccessGuard{bancas: bancas, geo: geo, geofence: geofence, logger: logger}
}

func (g *AccessGuard) Check(ctx context.Context, clientIP string, bancaIDs ...string) error {
	seen := make(map[string]struct{}, len(bancaIDs))
	for _, id := range bancaIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		b, err := g.bancas.FindByID(ctx, id)
		if err != nil {
			// Creation rejects unknown bancas with a precise error.
			if !errors.Is(err, domain.ErrNotFound) {
				g.logger.Warn().Err(err).Str("banca_id", id).Msg("could not load banca ip whitelist")
			}
			continue
		}
		if !b.AllowsIP(clientIP) {
			g.logger.Warn().Str("client_ip", clientIP).Str("banca_id", id).Msg("ip not in banca whitelist")
			return fmt.Errorf("%w: ip %s not authorized for banca %s", domain.ErrForbidden, clientIP, id)
		}
	}

	return g.checkGeofence(ctx, clientIP)
}

func (g *AccessGuard) checkGeofence(ctx context.Context, clientIP string) error {
	if g.geo == nil || g.geofence.Country == "" {
		return nil
	}
	country, err := g.geo.Country(ctx, clientIP)
	if err != nil {
		g.logger.Warn().Err(err).Str("client_ip", clientIP).Msg("geolocation failed")
		return nil
	}
	if country == "" || strings.EqualFold(country, g.geofence.Country) {
		return nil
	}

	g.logger.Warn().Str("client_ip", clientIP).Str("country", country).Msg("access from outside the allowed country")
	if g.geofence.Enforce {
		return fmt.Errorf("%w: access from %s not allowed", domain.ErrForbidden, country)
	}
	return nil
}
