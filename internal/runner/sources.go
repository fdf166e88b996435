package runner

import (
	"github.com/hamgrid/channel-data-etl/internal/adapter/pota"
	"github.com/hamgrid/channel-data-etl/internal/ingest"
)

// countryAliases maps a configured country prefix to every spelling the
// canonical files use for it.
var countryAliases = map[string][]string{
	"AT": {"AT", "AUT", "Austria"},
	"SK": {"SK", "SVK", "Slovakia"},
	"SG": {"SG", "SGP", "Singapore"},
	"JP": {"JP", "JPN", "Japan"},
	"DE": {"DE", "DEU", "Germany"},
}

// expandCountries turns the configured prefixes into the value list the
// canonical CSV filter matches against.
func expandCountries(prefixes []string) []string {
	var out []string
	for _, p := range prefixes {
		if aliases, ok := countryAliases[p]; ok {
			out = append(out, aliases...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// iso3Countries maps the configured prefixes onto the alpha-3 codes the
// SOTA summit files carry.
func iso3Countries(prefixes []string) []string {
	var out []string
	for _, p := range prefixes {
		if aliases, ok := countryAliases[p]; ok && len(aliases) >= 2 {
			out = append(out, aliases[1])
			continue
		}
		out = append(out, p)
	}
	return out
}

// repeaterSources builds the channel-export sources the configuration
// names: canonical repeater CSVs and the vendor file.
func (r *Runner) repeaterSources() []ingest.Source {
	var sources []ingest.Source
	countries := expandCountries(r.cfg.Countries)

	for _, path := range r.cfg.RepeaterFiles {
		sources = append(sources, ingest.NewCanonicalSource(path,
			ingest.CanonicalOptions{Countries: countries}, r.logger))
	}
	if r.cfg.VendorFile != "" {
		sources = append(sources, ingest.NewVendorSource(r.cfg.VendorFile,
			r.cfg.VendorEncodings, "Japan", "JPN", r.logger))
	}
	return sources
}

// waypointSources builds the GPS-export sources: the POTA API and the
// SOTA summits file.
func (r *Runner) waypointSources() []ingest.Source {
	var sources []ingest.Source

	if r.cfg.POTAEnabled {
		client := pota.NewClient(r.cfg.POTABaseURL, r.cfg.POTATimeout,
			r.cfg.POTAAttempts, r.cfg.POTABackoff, r.metrics, r.logger)
		sources = append(sources, ingest.NewPOTASource(client, r.cfg.Countries, r.logger))
	}
	if r.cfg.SOTAFile != "" {
		sources = append(sources, ingest.NewSOTASource(r.cfg.SOTAFile,
			iso3Countries(r.cfg.Countries), r.logger))
	}
	return sources
}
