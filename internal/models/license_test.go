package models

import "testing"

func TestLicenseBindMachine(t *testing.T) {
	lic := &LicenseKey{ActivationLimit: 3}
	if lic.MachineIDs() != nil {
		t.Fatalf("fresh key should have no machines")
	}
	lic.BindMachine("machine-a")
	lic.BindMachine("machine-b")
	if lic.ActivationCount != 2 {
		t.Fatalf("expected count 2, got %d", lic.ActivationCount)
	}
	if !lic.IsBound("machine-a") || !lic.IsBound("machine-b") {
		t.Fatalf("bound machines not reported: %q", lic.Machines)
	}
	if lic.IsBound("machine-c") {
		t.Fatalf("unbound machine reported as bound")
	}
}

func TestLicenseMachinesCorruptJSON(t *testing.T) {
	lic := &LicenseKey{Machines: "{not json"}
	if ids := lic.MachineIDs(); ids != nil {
		t.Fatalf("corrupt column should decode to nil, got %v", ids)
	}
}

func TestOrderHasPhysical(t *testing.T) {
	digital := Order{Items: []OrderItem{{IsDigital: true}, {IsDigital: true}}}
	if digital.HasPhysical() {
		t.Fatalf("all-digital order should have no physical items")
	}
	mixed := Order{Items: []OrderItem{{IsDigital: true}, {IsDigital: false}}}
	if !mixed.HasPhysical() {
		t.Fatalf("mixed order should report physical items")
	}
}

func TestPrizeExhausted(t *testing.T) {
	unlimited := Prize{WonCount: 1000}
	if unlimited.Exhausted() {
		t.Fatalf("nil quantity means unlimited")
	}
	qty := 5
	capped := Prize{TotalQuantity: &qty, WonCount: 4}
	if capped.Exhausted() {
		t.Fatalf("one unit left, not exhausted")
	}
	capped.WonCount = 5
	if !capped.Exhausted() {
		t.Fatalf("cap reached, should be exhausted")
	}
}
