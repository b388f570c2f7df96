package status

import (
	"reflect"
	"testing"
)

type recordingIndicator struct {
	patches []string
	rekeys  []string
}

func (r *recordingIndicator) PatchStatus(key string, s Status) {
	r.patches = append(r.patches, key+"="+string(s))
}

func (r *recordingIndicator) Rekey(oldKey, newKey string) {
	r.rekeys = append(r.rekeys, oldKey+"->"+newKey)
}

func TestUpdatePatchesOnlyTargetRow(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Track("1", Delivered)
	tr.Track("2", Delivered)
	tr.Track("3", Sent)

	got, changed := tr.Update("2", Read)
	if !changed || got != Read {
		t.Fatalf("Update() = %s, %v; want read, true", got, changed)
	}
	if want := []string{"2=read"}; !reflect.DeepEqual(view.patches, want) {
		t.Errorf("patches = %v, want %v", view.patches, want)
	}
	if tr.Status("1") != Delivered || tr.Status("3") != Sent {
		t.Errorf("untouched rows changed: 1=%s 3=%s", tr.Status("1"), tr.Status("3"))
	}
}

func TestUpdateIgnoresBackwardsAndDuplicates(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Track("1", Read)

	if _, changed := tr.Update("1", Delivered); changed {
		t.Error("read -> delivered should not change")
	}
	if _, changed := tr.Update("1", Read); changed {
		t.Error("read -> read should not change")
	}
	if len(view.patches) != 0 {
		t.Errorf("patches = %v, want none", view.patches)
	}
}

func TestSendLifecycle(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Track("temp_a", Sending)

	s, ok := tr.Reconcile("temp_a", "42", Sent)
	if !ok || s != Sent {
		t.Fatalf("Reconcile() = %s, %v; want sent, true", s, ok)
	}
	if tr.Status("temp_a") != Unknown {
		t.Errorf("temp key still tracked: %s", tr.Status("temp_a"))
	}
	if want := []string{"temp_a->42"}; !reflect.DeepEqual(view.rekeys, want) {
		t.Errorf("rekeys = %v, want %v", view.rekeys, want)
	}

	tr.Update("42", Delivered)
	tr.Update("42", Read)
	if tr.Status("42") != Read {
		t.Errorf("status = %s, want read", tr.Status("42"))
	}
}

func TestReceiptBeforeReconcile(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Track("temp_a", Sending)

	if got, changed := tr.Update("42", Delivered); changed || got != Unknown {
		t.Fatalf("early Update() = %s, %v; want unknown, false", got, changed)
	}

	s, _ := tr.Reconcile("temp_a", "42", Sent)
	if s != Delivered {
		t.Errorf("Reconcile() = %s, want buffered delivered applied", s)
	}
	if last := view.patches[len(view.patches)-1]; last != "42=delivered" {
		t.Errorf("last patch = %s, want 42=delivered", last)
	}
}

func TestFailedIsTerminal(t *testing.T) {
	tr := NewTracker(nil)
	tr.Track("temp_a", Sending)

	if s, _ := tr.Update("temp_a", Failed); s != Failed {
		t.Fatalf("Update(failed) = %s", s)
	}
	if _, changed := tr.Update("temp_a", Sent); changed {
		t.Error("failed must not be overridden")
	}

	tr.Track("9", Sent)
	if s, _ := tr.Update("9", Failed); s != Sent {
		t.Errorf("sent -> failed = %s, want sent", s)
	}
}

func TestReconcileUntracked(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)

	if _, ok := tr.Reconcile("temp_gone", "5", Sent); ok {
		t.Error("Reconcile of untracked temp key should report false")
	}
	if len(view.rekeys) != 0 || len(view.patches) != 0 {
		t.Errorf("view touched for untracked key: %v %v", view.rekeys, view.patches)
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker(nil)
	tr.Track("1", Sent)
	tr.Update("2", Read)
	tr.Reset()

	if tr.Len() != 0 {
		t.Errorf("Len() = %d after reset", tr.Len())
	}
	tr.Track("2", Sent)
	if tr.Status("2") != Sent {
		t.Errorf("buffered receipt survived reset: %s", tr.Status("2"))
	}
}

func TestTrackAppliesBufferedReceipt(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Update("7", Read)
	tr.Track("7", Delivered)

	if tr.Status("7") != Read {
		t.Errorf("status = %s, want read", tr.Status("7"))
	}
	if want := []string{"7=read"}; !reflect.DeepEqual(view.patches, want) {
		t.Errorf("patches = %v, want %v", view.patches, want)
	}
}

func TestEarlyReceiptsMergeWhileBuffered(t *testing.T) {
	tr := NewTracker(nil)
	tr.Track("temp_b", Sending)

	tr.Update("8", Read)
	tr.Update("8", Delivered)

	if s, _ := tr.Reconcile("temp_b", "8", Sent); s != Read {
		t.Errorf("Reconcile() = %s, want read", s)
	}
}

func TestEarlyDeliveryReachesTrack(t *testing.T) {
	view := &recordingIndicator{}
	tr := NewTracker(view)
	tr.Update("3", Delivered)
	tr.Track("3", Sent)

	if tr.Status("3") != Delivered {
		t.Errorf("status = %s, want delivered", tr.Status("3"))
	}
	if want := []string{"3=delivered"}; !reflect.DeepEqual(view.patches, want) {
		t.Errorf("patches = %v, want %v", view.patches, want)
	}
}
