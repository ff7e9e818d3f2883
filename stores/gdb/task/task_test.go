package task

import "testing"

func TestEditable(t *testing.T) {
	cases := map[TaskStatus]bool{
		StatusQueued:    true,
		StatusAssigned:  true,
		StatusSubmitted: false,
		StatusVerified:  false,
		StatusRejected:  true,
	}
	for status, want := range cases {
		task := Task{Status: status}
		if got := task.Editable(); got != want {
			t.Fatalf("Editable() with status %s = %v, want %v", status, got, want)
		}
	}
}
