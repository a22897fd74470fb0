package realtime

import "testing"

func TestRecipientUserIDs_DeduplicatesAndDropsEmpty(t *testing.T) {
	ids := RecipientUserIDs(BusinessEvent{UserID: "U1", StudentID: "U1", TrainerID: ""})
	if len(ids) != 1 || ids[0] != "U1" {
		t.Fatalf("expected [U1], got %v", ids)
	}
}

func TestRecipientUserIDs_SessionSubstitutedIncludesBothTrainers(t *testing.T) {
	ids := RecipientUserIDs(BusinessEvent{
		Type:                eventTypeSessionSubstituted,
		StudentID:           "S1",
		OriginalTrainerID:   "T1",
		SubstituteTrainerID: "T2",
	})

	want := map[string]bool{"S1": true, "T1": true, "T2": true}
	if len(ids) != 3 {
		t.Fatalf("expected 3 recipients, got %v", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected recipient %s", id)
		}
	}
}

func TestShouldReceive_AdminSeesEverything(t *testing.T) {
	if !ShouldReceive(BusinessEvent{StudentID: "S1"}, "admin-1", RoleAdmin) {
		t.Fatal("admin must see all events")
	}
}

func TestShouldReceive_StudentOnlySeesOwnEvents(t *testing.T) {
	e := BusinessEvent{StudentID: "S1"}
	if !ShouldReceive(e, "S1", RoleStudent) {
		t.Fatal("student S1 must see its own event")
	}
	if ShouldReceive(e, "S2", RoleStudent) {
		t.Fatal("student S2 must not see S1's event")
	}
}

func TestShouldReceive_TrainerSeesEitherSideOfSubstitution(t *testing.T) {
	e := BusinessEvent{Type: eventTypeSessionSubstituted, OriginalTrainerID: "T1", SubstituteTrainerID: "T2"}

	if !ShouldReceive(e, "T1", RoleTrainer) {
		t.Fatal("original trainer must see the substitution event")
	}
	if !ShouldReceive(e, "T2", RoleTrainer) {
		t.Fatal("substitute trainer must see the substitution event")
	}
	if ShouldReceive(e, "T3", RoleTrainer) {
		t.Fatal("unrelated trainer must not see the substitution event")
	}
}
