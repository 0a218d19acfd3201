// Package permission decides, for a given user, whether a plan-gated
// feature is usable or a quota has been exceeded. It is a pure lookup
// over static per-plan capability tables; no database access.
package permission

import (
	"fmt"

	"go-pos-api/internal/model"
)

// Feature is a plan-gated boolean capability.
type Feature string

const (
	FeatureBasicPOS           Feature = "basic_pos"
	FeatureProductManagement  Feature = "product_management"
	FeatureCustomerManagement Feature = "customer_management"
	FeatureBasicReports       Feature = "basic_reports"
	FeatureAdvancedReports    Feature = "advanced_reports"
	FeatureEmployeeManagement Feature = "employee_management"
	FeatureMultiOutlet        Feature = "multi_outlet"
	FeatureDataExport         Feature = "data_export"
	FeatureInventoryAlerts    Feature = "inventory_alerts"
	FeatureDiscountManagement Feature = "discount_management"
)

// AllFeatures lists every feature flag; each plan table covers all of them.
var AllFeatures = []Feature{
	FeatureBasicPOS,
	FeatureProductManagement,
	FeatureCustomerManagement,
	FeatureBasicReports,
	FeatureAdvancedReports,
	FeatureEmployeeManagement,
	FeatureMultiOutlet,
	FeatureDataExport,
	FeatureInventoryAlerts,
	FeatureDiscountManagement,
}

// QuotaKey is a plan-gated numeric ceiling.
type QuotaKey string

const (
	QuotaMaxProducts  QuotaKey = "maxProducts"
	QuotaMaxEmployees QuotaKey = "maxEmployees"
	QuotaMaxOutlets   QuotaKey = "maxOutlets"
)

// quotaResource names each quota's resource in user-facing messages.
var quotaResource = map[QuotaKey]string{
	QuotaMaxProducts:  "products",
	QuotaMaxEmployees: "employees",
	QuotaMaxOutlets:   "outlets",
}

// PlanCapabilities is the full capability set of one tier. Quota limits
// use nil for unlimited.
type PlanCapabilities struct {
	Features map[Feature]bool  `json:"features"`
	Quotas   map[QuotaKey]*int `json:"quotas"`
}

func limit(n int) *int { return &n }

// planTable enumerates every tier exhaustively. Unknown plans degrade to
// the free tier, never to a crash.
var planTable = map[model.Plan]PlanCapabilities{
	model.PlanFree: {
		Features: map[Feature]bool{
			FeatureBasicPOS:           true,
			FeatureProductManagement:  true,
			FeatureCustomerManagement: true,
			FeatureBasicReports:       true,
			FeatureAdvancedReports:    false,
			FeatureEmployeeManagement: false,
			FeatureMultiOutlet:        false,
			FeatureDataExport:         false,
			FeatureInventoryAlerts:    false,
			FeatureDiscountManagement: false,
		},
		Quotas: map[QuotaKey]*int{
			QuotaMaxProducts:  limit(50),
			QuotaMaxEmployees: limit(2),
			QuotaMaxOutlets:   limit(1),
		},
	},
	model.PlanPro: {
		Features: map[Feature]bool{
			FeatureBasicPOS:           true,
			FeatureProductManagement:  true,
			FeatureCustomerManagement: true,
			FeatureBasicReports:       true,
			FeatureAdvancedReports:    true,
			FeatureEmployeeManagement: true,
			FeatureMultiOutlet:        false,
			FeatureDataExport:         true,
			FeatureInventoryAlerts:    true,
			FeatureDiscountManagement: true,
		},
		Quotas: map[QuotaKey]*int{
			QuotaMaxProducts:  limit(500),
			QuotaMaxEmployees: limit(10),
			QuotaMaxOutlets:   limit(3),
		},
	},
	model.PlanProPlus: {
		Features: map[Feature]bool{
			FeatureBasicPOS:           true,
			FeatureProductManagement:  true,
			FeatureCustomerManagement: true,
			FeatureBasicReports:       true,
			FeatureAdvancedReports:    true,
			FeatureEmployeeManagement: true,
			FeatureMultiOutlet:        true,
			FeatureDataExport:         true,
			FeatureInventoryAlerts:    true,
			FeatureDiscountManagement: true,
		},
		Quotas: map[QuotaKey]*int{
			QuotaMaxProducts:  nil,
			QuotaMaxEmployees: nil,
			QuotaMaxOutlets:   nil,
		},
	},
}

// capabilitiesFor resolves a plan's table, falling back to the most
// restrictive tier for unrecognized plan names.
func capabilitiesFor(plan model.Plan) PlanCapabilities {
	if caps, ok := planTable[plan]; ok {
		return caps
	}
	return planTable[model.PlanFree]
}

// Capabilities exposes the static table for a plan (used by the plan
// listing endpoint). Unknown plans return the free tier.
func Capabilities(plan model.Plan) PlanCapabilities {
	return capabilitiesFor(plan)
}

// Plans returns the tiers in ascending order.
func Plans() []model.Plan {
	return []model.Plan{model.PlanFree, model.PlanPro, model.PlanProPlus}
}

// HasFeatureAccess reports whether a feature is usable for the given
// role and plan. Admin bypasses all plan gates.
func HasFeatureAccess(role model.Role, plan model.Plan, feature Feature) bool {
	if role == model.RoleAdmin {
		return true
	}
	return capabilitiesFor(plan).Features[feature]
}

// QuotaDecision is the result of a quota check. Limit is nil when the
// plan places no ceiling on the resource.
type QuotaDecision struct {
	Allowed bool   `json:"allowed"`
	Limit   *int   `json:"limit"`
	Message string `json:"message,omitempty"`
}

// CheckQuota reports whether currentCount leaves room under the plan's
// ceiling for quotaKey. The boundary is exact: a count equal to the
// limit is already full.
func CheckQuota(role model.Role, plan model.Plan, quotaKey QuotaKey, currentCount int) QuotaDecision {
	if role == model.RoleAdmin {
		return QuotaDecision{Allowed: true}
	}

	quota := capabilitiesFor(plan).Quotas[quotaKey]
	if quota == nil {
		return QuotaDecision{Allowed: true}
	}

	if currentCount >= *quota {
		return QuotaDecision{
			Allowed: false,
			Limit:   quota,
			Message: fmt.Sprintf("plan %s allows at most %d %s; upgrade to add more", plan, *quota, quotaResource[quotaKey]),
		}
	}
	return QuotaDecision{Allowed: true, Limit: quota}
}
