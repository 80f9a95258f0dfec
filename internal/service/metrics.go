package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	productChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_changes_total",
			Help: "Catalog changes made by store owners",
		},
		[]string{"action"},
	)

	reviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_reviews_created_total",
		Help: "Product reviews written",
	})

	contactMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_contact_messages_total",
			Help: "Contact form messages stored, by mail relay outcome",
		},
		[]string{"relay"},
	)

	newsletterSignups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_newsletter_signups_total",
		Help: "New newsletter subscribers",
	})
)
