package event

import "testing"

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) Notify(e string) { *r.log = append(*r.log, r.name+":"+e) }

func TestNoDuplicateRegistration(t *testing.T) {
	var reg Registry[string]
	var log []string
	l := &recorder{name: "a", log: &log}
	if !reg.Add(l) {
		t.Fatalf("first Add returned false")
	}
	if reg.Add(l) {
		t.Fatalf("duplicate Add returned true")
	}
	reg.Notify("x")
	if len(log) != 1 {
		t.Fatalf("expected one delivery, got %v", log)
	}
}

func TestDeliveryInRegistrationOrder(t *testing.T) {
	var reg Registry[string]
	var log []string
	reg.Add(&recorder{name: "a", log: &log})
	reg.Add(&recorder{name: "b", log: &log})
	reg.Add(&recorder{name: "c", log: &log})
	reg.Notify("1")
	reg.Notify("2")
	want := []string{"a:1", "b:1", "c:1", "a:2", "b:2", "c:2"}
	if len(log) != len(want) {
		t.Fatalf("unexpected log %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("delivery %d: got %q want %q", i, log[i], want[i])
		}
	}
}

func TestRemoveDuringNotify(t *testing.T) {
	var reg Registry[int]
	calls := 0
	var self *Func[int]
	self = NewFunc(func(int) {
		calls++
		reg.Remove(self)
	})
	other := 0
	reg.Add(self)
	reg.Add(NewFunc(func(int) { other++ }))

	reg.Notify(1)
	reg.Notify(2)

	if calls != 1 {
		t.Fatalf("self-removing listener called %d times", calls)
	}
	if other != 2 {
		t.Fatalf("second listener missed events: %d", other)
	}
}

func TestSubscribeCancel(t *testing.T) {
	var reg Registry[int]
	got := 0
	cancel := reg.Subscribe(func(v int) { got += v })
	reg.Notify(2)
	cancel()
	reg.Notify(3)
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if reg.Len() != 0 {
		t.Fatalf("listener not removed")
	}
}
