package authz

import "testing"

func TestIsOwnerOrStaff(t *testing.T) {
	tests := []struct {
		name      string
		actorID   int64
		staffFlag bool
		ownerID   int64
		want      bool
	}{
		{"owner without staff flag", 7, false, 7, true},
		{"owner with staff flag", 7, true, 7, true},
		{"non-owner with staff flag", 3, true, 7, true},
		{"non-owner without staff flag", 3, false, 7, false},
		{"zero actor against real owner", 0, false, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnerOrStaff(tt.actorID, tt.staffFlag, tt.ownerID); got != tt.want {
				t.Errorf("IsOwnerOrStaff(%d, %v, %d) = %v, want %v",
					tt.actorID, tt.staffFlag, tt.ownerID, got, tt.want)
			}
		})
	}
}
