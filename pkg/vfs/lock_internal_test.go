package vfs

import "testing"

func TestLockStateTransitionTable(t *testing.T) {
	type state struct {
		readCount   int
		writeIntent WriteIntent
	}

	testCases := []struct {
		name      string
		before    state
		current   LockKind
		requested LockKind
		kind      LockKind
		granted   bool
		after     state
	}{
		{"release shared", state{1, WriteIntentNone}, LockShared, LockNone, LockNone, true, state{0, WriteIntentNone}},
		{"release reserved", state{0, WriteIntentReserved}, LockReserved, LockNone, LockNone, true, state{0, WriteIntentNone}},
		{"release pending", state{0, WriteIntentExclusive}, LockPending, LockNone, LockNone, true, state{0, WriteIntentNone}},
		{"release exclusive", state{0, WriteIntentExclusive}, LockExclusive, LockNone, LockNone, true, state{0, WriteIntentNone}},
		{"none to none", state{1, WriteIntentNone}, LockNone, LockNone, LockNone, true, state{1, WriteIntentNone}},
		{"shared from none", state{0, WriteIntentNone}, LockNone, LockShared, LockShared, true, state{1, WriteIntentNone}},
		{"shared while reserved elsewhere", state{0, WriteIntentReserved}, LockNone, LockShared, LockShared, true, state{1, WriteIntentReserved}},
		{"shared while exclusive elsewhere", state{0, WriteIntentExclusive}, LockNone, LockShared, LockNone, false, state{0, WriteIntentExclusive}},
		{"shared to shared", state{1, WriteIntentExclusive}, LockShared, LockShared, LockShared, true, state{1, WriteIntentExclusive}},
		{"shared from reserved", state{0, WriteIntentReserved}, LockReserved, LockShared, LockShared, true, state{1, WriteIntentNone}},
		{"shared from pending", state{1, WriteIntentExclusive}, LockPending, LockShared, LockShared, true, state{2, WriteIntentNone}},
		{"shared from exclusive", state{0, WriteIntentExclusive}, LockExclusive, LockShared, LockShared, true, state{1, WriteIntentNone}},
		{"reserved from shared", state{1, WriteIntentNone}, LockShared, LockReserved, LockReserved, true, state{0, WriteIntentReserved}},
		{"reserved while reserved elsewhere", state{2, WriteIntentReserved}, LockShared, LockReserved, LockShared, false, state{2, WriteIntentReserved}},
		{"reserved from none", state{0, WriteIntentNone}, LockNone, LockReserved, LockNone, false, state{0, WriteIntentNone}},
		{"reserved from exclusive", state{0, WriteIntentExclusive}, LockExclusive, LockReserved, LockExclusive, false, state{0, WriteIntentExclusive}},
		{"pending from shared", state{1, WriteIntentNone}, LockShared, LockPending, LockShared, false, state{1, WriteIntentNone}},
		{"pending from reserved", state{0, WriteIntentReserved}, LockReserved, LockPending, LockReserved, false, state{0, WriteIntentReserved}},
		{"exclusive from sole shared", state{1, WriteIntentNone}, LockShared, LockExclusive, LockExclusive, true, state{0, WriteIntentExclusive}},
		{"exclusive with other readers", state{2, WriteIntentNone}, LockShared, LockExclusive, LockPending, false, state{1, WriteIntentExclusive}},
		{"exclusive while exclusive elsewhere", state{1, WriteIntentExclusive}, LockShared, LockExclusive, LockShared, false, state{1, WriteIntentExclusive}},
		{"exclusive while reserved elsewhere", state{1, WriteIntentReserved}, LockShared, LockExclusive, LockShared, false, state{1, WriteIntentReserved}},
		{"exclusive from reserved", state{0, WriteIntentReserved}, LockReserved, LockExclusive, LockExclusive, true, state{0, WriteIntentExclusive}},
		{"exclusive from reserved with readers", state{1, WriteIntentReserved}, LockReserved, LockExclusive, LockPending, false, state{1, WriteIntentExclusive}},
		{"exclusive from pending", state{0, WriteIntentExclusive}, LockPending, LockExclusive, LockExclusive, true, state{0, WriteIntentExclusive}},
		{"exclusive from pending with readers", state{1, WriteIntentExclusive}, LockPending, LockExclusive, LockPending, false, state{1, WriteIntentExclusive}},
		{"exclusive from none", state{0, WriteIntentNone}, LockNone, LockExclusive, LockExclusive, true, state{0, WriteIntentExclusive}},
		{"exclusive from none with readers", state{1, WriteIntentNone}, LockNone, LockExclusive, LockPending, false, state{1, WriteIntentExclusive}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewLockState()
			s.readCount = tc.before.readCount
			s.writeIntent = tc.before.writeIntent

			kind, granted := s.Transition(tc.current, tc.requested)

			if kind != tc.kind {
				t.Errorf("Transition() failed, expected kind %s, got %s", tc.kind, kind)
			}

			if granted != tc.granted {
				t.Errorf("Transition() failed, expected granted %v, got %v", tc.granted, granted)
			}

			if s.readCount != tc.after.readCount {
				t.Errorf("Transition() failed, expected read count %d, got %d", tc.after.readCount, s.readCount)
			}

			if s.writeIntent != tc.after.writeIntent {
				t.Errorf("Transition() failed, expected write intent %s, got %s", tc.after.writeIntent, s.writeIntent)
			}
		})
	}
}

func TestLockStateReadCountUnderflowPanics(t *testing.T) {
	s := NewLockState()

	defer func() {
		if recover() == nil {
			t.Error("Transition() failed, expected a panic when the read count underflows")
		}
	}()

	s.Transition(LockShared, LockNone)
}

func TestLockStateReleaseWithoutRetainPanics(t *testing.T) {
	s := NewLockState()

	defer func() {
		if recover() == nil {
			t.Error("release() failed, expected a panic without a reference")
		}
	}()

	s.release()
}
