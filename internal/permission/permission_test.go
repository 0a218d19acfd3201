package permission

import (
	"strings"
	"testing"

	"go-pos-api/internal/model"
)

func TestAdminBypassesEveryGate(t *testing.T) {
	plans := append(Plans(), model.Plan("totally-unknown"))
	for _, plan := range plans {
		for _, f := range AllFeatures {
			if !HasFeatureAccess(model.RoleAdmin, plan, f) {
				t.Errorf("admin denied feature %s on plan %s", f, plan)
			}
		}
		for _, q := range []QuotaKey{QuotaMaxProducts, QuotaMaxEmployees, QuotaMaxOutlets} {
			d := CheckQuota(model.RoleAdmin, plan, q, 1_000_000)
			if !d.Allowed {
				t.Errorf("admin denied quota %s on plan %s", q, plan)
			}
			if d.Limit != nil {
				t.Errorf("admin quota %s on plan %s should have nil limit, got %d", q, plan, *d.Limit)
			}
		}
	}
}

func TestFreeTierTable(t *testing.T) {
	want := map[Feature]bool{
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
	}
	if len(want) != len(AllFeatures) {
		t.Fatalf("free table enumeration drifted: want %d features, AllFeatures has %d", len(want), len(AllFeatures))
	}
	for _, role := range []model.Role{model.RoleKasir, model.RoleSupervisor} {
		for f, allowed := range want {
			if got := HasFeatureAccess(role, model.PlanFree, f); got != allowed {
				t.Errorf("role %s free plan feature %s: got %v want %v", role, f, got, allowed)
			}
		}
	}
}

func TestUnknownPlanDegradesToFree(t *testing.T) {
	for _, f := range AllFeatures {
		got := HasFeatureAccess(model.RoleKasir, model.Plan("enterprise"), f)
		want := HasFeatureAccess(model.RoleKasir, model.PlanFree, f)
		if got != want {
			t.Errorf("unknown plan feature %s: got %v, free tier says %v", f, got, want)
		}
	}
	d := CheckQuota(model.RoleKasir, model.Plan("enterprise"), QuotaMaxProducts, 50)
	if d.Allowed {
		t.Error("unknown plan should inherit the free product ceiling")
	}
}

func TestUnlimitedQuotaAlwaysAllows(t *testing.T) {
	for _, q := range []QuotaKey{QuotaMaxProducts, QuotaMaxEmployees, QuotaMaxOutlets} {
		for _, count := range []int{0, 1, 499, 100_000} {
			d := CheckQuota(model.RoleKasir, model.PlanProPlus, q, count)
			if !d.Allowed {
				t.Errorf("pro_plus quota %s denied at count %d", q, count)
			}
			if d.Limit != nil {
				t.Errorf("pro_plus quota %s should be unlimited, got limit %d", q, *d.Limit)
			}
		}
	}
}

func TestQuotaBoundaryIsExact(t *testing.T) {
	cases := []struct {
		plan  model.Plan
		key   QuotaKey
		limit int
	}{
		{model.PlanFree, QuotaMaxProducts, 50},
		{model.PlanFree, QuotaMaxEmployees, 2},
		{model.PlanFree, QuotaMaxOutlets, 1},
		{model.PlanPro, QuotaMaxProducts, 500},
		{model.PlanPro, QuotaMaxEmployees, 10},
		{model.PlanPro, QuotaMaxOutlets, 3},
	}
	for _, tc := range cases {
		under := CheckQuota(model.RoleKasir, tc.plan, tc.key, tc.limit-1)
		if !under.Allowed {
			t.Errorf("%s %s at %d (one under) should be allowed", tc.plan, tc.key, tc.limit-1)
		}
		if under.Limit == nil || *under.Limit != tc.limit {
			t.Errorf("%s %s: decision should carry limit %d", tc.plan, tc.key, tc.limit)
		}

		at := CheckQuota(model.RoleKasir, tc.plan, tc.key, tc.limit)
		if at.Allowed {
			t.Errorf("%s %s at %d (exactly the limit) should be denied", tc.plan, tc.key, tc.limit)
		}
		if at.Message == "" || !strings.Contains(at.Message, quotaResource[tc.key]) {
			t.Errorf("%s %s denial message should name the resource, got %q", tc.plan, tc.key, at.Message)
		}
	}
}

func TestEveryPlanTableIsTotal(t *testing.T) {
	for _, plan := range Plans() {
		caps := Capabilities(plan)
		for _, f := range AllFeatures {
			if _, ok := caps.Features[f]; !ok {
				t.Errorf("plan %s missing feature %s in its table", plan, f)
			}
		}
		for _, q := range []QuotaKey{QuotaMaxProducts, QuotaMaxEmployees, QuotaMaxOutlets} {
			if _, ok := caps.Quotas[q]; !ok {
				t.Errorf("plan %s missing quota %s in its table", plan, q)
			}
		}
	}
}
