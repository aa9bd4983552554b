// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveStorefronts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_storefronts",
			Help: "Number of storefronts currently loaded in memory.",
		})

	StorefrontLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_load_total",
			Help: "Cumulative number of storefronts successfully loaded.",
		})

	StorefrontLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_load_errors_total",
			Help: "Cumulative number of storefront load errors.",
		})

	StorefrontEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_evict_total",
			Help: "Cumulative number of storefronts evicted from the cache.",
		})

	SlugSuggestionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slug_suggestions_total",
			Help: "Cumulative number of alternative subdomains suggested.",
		})

	// SubdomainConflictsTotal is labelled by stage: "precheck" when the
	// existence check caught it, "commit" when the unique key did.
	SubdomainConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subdomain_conflicts_total",
			Help: "Registrations whose subdomain was already taken.",
		}, []string{"stage"})

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration attempts by result.",
		}, []string{"result"})

	SocialSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_sync_total",
			Help: "Social-link batch submissions by result.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ActiveStorefronts,
		StorefrontLoadTotal,
		StorefrontLoadErrorsTotal,
		StorefrontEvictTotal,
		SlugSuggestionsTotal,
		SubdomainConflictsTotal,
		RegistrationsTotal,
		SocialSyncTotal,
	)
}
