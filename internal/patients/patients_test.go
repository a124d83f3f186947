package patients

import "testing"

func TestFilter_ByStatus(t *testing.T) {
	got := Filter(Query{Status: "verified"})
	if len(got) == 0 {
		t.Fatalf("no verified patients in roster")
	}
	for _, p := range got {
		if p.Status != StatusVerified {
			t.Fatalf("filter leaked status %v", p.Status)
		}
	}
}

func TestFilter_SearchMatchesNameAndMemberID(t *testing.T) {
	if got := Filter(Query{Search: "emma"}); len(got) != 1 || got[0].ID != "pt-001" {
		t.Fatalf("name search: %+v", got)
	}
	if got := Filter(Query{Search: "k-7781"}); len(got) != 1 || got[0].ID != "pt-001" {
		t.Fatalf("member id search: %+v", got)
	}
	if got := Filter(Query{Search: "zzz"}); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestFilter_SortOrders(t *testing.T) {
	byName := Filter(Query{Sort: "name"})
	for i := 1; i < len(byName); i++ {
		if byName[i].Name < byName[i-1].Name {
			t.Fatalf("name sort broken at %d", i)
		}
	}
	byTime := Filter(Query{})
	for i := 1; i < len(byTime); i++ {
		if byTime[i].Appointment.Before(byTime[i-1].Appointment) {
			t.Fatalf("time sort broken at %d", i)
		}
	}
}

func TestByID(t *testing.T) {
	if _, ok := ByID("pt-003"); !ok {
		t.Fatalf("known patient missing")
	}
	if _, ok := ByID("nope"); ok {
		t.Fatalf("unknown patient found")
	}
}
