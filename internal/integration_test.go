// Package internal holds cross-package scenario tests: the lock state
// machine wired to the real codec over fake hardware.
package internal

import (
	"testing"
	"time"

	"github.com/sweeney/timebox/internal/logic"
	"github.com/sweeney/timebox/internal/servo"
	"github.com/sweeney/timebox/internal/store"
)

func TestLockCountdownEndToEnd(t *testing.T) {
	device := store.NewFakeDevice()
	codec := store.NewCodec(device)
	act := servo.NewFakeActuator()

	ctrl, err := logic.NewController(act, codec, 15)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	lockTime := uint32(1767355200)
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	event, err := ctrl.TryLock(lockTime, at)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if event == nil || event.Type != logic.EventLocked || event.RemainingMinutes != 15 {
		t.Fatalf("lock event: got %+v", event)
	}
	if act.Last() != logic.PositionLock {
		t.Errorf("actuator: got %s", act.Last())
	}

	// The full record, timestamp included, must be on the device already.
	st, ok, err := codec.Load()
	if err != nil || !ok {
		t.Fatalf("load after lock: ok=%v err=%v", ok, err)
	}
	if !st.Locked || st.RemainingMinutes != 15 || st.LockedAt != lockTime {
		t.Fatalf("persisted state: got %+v", st)
	}

	// 14 minute boundaries: still locked, counting down, no unlock event.
	for i := 1; i <= 14; i++ {
		at = at.Add(time.Minute)
		event, err := ctrl.Tick(at)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if event != nil {
			t.Fatalf("tick %d: unexpected event %+v", i, event)
		}
		if !ctrl.Locked() {
			t.Fatalf("tick %d: unlocked early", i)
		}
		st, ok, _ := codec.Load()
		if !ok || st.RemainingMinutes != 15-i {
			t.Fatalf("tick %d: persisted %+v", i, st)
		}
	}

	// 15th boundary: unlocks, exactly once.
	at = at.Add(time.Minute)
	event, err = ctrl.Tick(at)
	if err != nil {
		t.Fatalf("final tick: %v", err)
	}
	if event == nil || event.Type != logic.EventUnlocked {
		t.Fatalf("final tick event: got %+v", event)
	}
	if act.Last() != logic.PositionUnlock {
		t.Errorf("actuator: got %s", act.Last())
	}

	st, ok, err = codec.Load()
	if err != nil || !ok {
		t.Fatalf("load after unlock: ok=%v err=%v", ok, err)
	}
	if st.Locked {
		t.Errorf("persisted state still locked: %+v", st)
	}

	counts := ctrl.Counts()
	if counts.Locks != 1 || counts.Unlocks != 1 || counts.MinuteTicks != 15 {
		t.Errorf("counts: got %+v", counts)
	}
}

func TestPowerLossRecovery(t *testing.T) {
	device := store.NewFakeDevice()
	codec := store.NewCodec(device)
	lockTime := uint32(1767355200)

	// First run: lock for 10 minutes, then the power dies.
	{
		act := servo.NewFakeActuator()
		ctrl, err := logic.NewController(act, codec, 10)
		if err != nil {
			t.Fatalf("NewController: %v", err)
		}
		if _, err := ctrl.TryLock(lockTime, time.Now()); err != nil {
			t.Fatalf("TryLock: %v", err)
		}
	}

	// Second run: powered back on 7 minutes later.
	act := servo.NewFakeActuator()
	ctrl, err := logic.NewController(act, codec, 15)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	bootTime := lockTime + 420
	event, err := ctrl.RecoverOnBoot(bootTime, time.Now())
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event == nil || event.Type != logic.EventLocked || event.RemainingMinutes != 3 {
		t.Fatalf("recovery event: got %+v", event)
	}
	if !ctrl.Locked() || ctrl.Remaining() != 3 {
		t.Fatalf("recovered state: locked=%v remaining=%d", ctrl.Locked(), ctrl.Remaining())
	}
	if act.Last() != logic.PositionLock {
		t.Errorf("actuator: got %s", act.Last())
	}

	// Adjusted minutes and a fresh timestamp go back to the device, so a
	// second power loss does not subtract the same 7 minutes again.
	st, ok, err := codec.Load()
	if err != nil || !ok {
		t.Fatalf("load after recovery: ok=%v err=%v", ok, err)
	}
	if st.RemainingMinutes != 3 || st.LockedAt != bootTime {
		t.Fatalf("re-persisted state: got %+v", st)
	}
}

func TestPowerLossRecoveryExpired(t *testing.T) {
	device := store.NewFakeDevice()
	codec := store.NewCodec(device)
	lockTime := uint32(1767355200)

	{
		act := servo.NewFakeActuator()
		ctrl, _ := logic.NewController(act, codec, 5)
		if _, err := ctrl.TryLock(lockTime, time.Now()); err != nil {
			t.Fatalf("TryLock: %v", err)
		}
	}

	// Powered back on an hour later: the lock is long expired.
	act := servo.NewFakeActuator()
	ctrl, _ := logic.NewController(act, codec, 15)

	event, err := ctrl.RecoverOnBoot(lockTime+3600, time.Now())
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event == nil || event.Type != logic.EventUnlocked {
		t.Fatalf("recovery event: got %+v", event)
	}
	if ctrl.Locked() {
		t.Error("should be unlocked")
	}
	if act.Last() != logic.PositionUnlock {
		t.Errorf("actuator: got %s", act.Last())
	}

	st, ok, err := codec.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if st.Locked {
		t.Errorf("persisted state still locked: %+v", st)
	}
}

func TestPowerLossMidSaveReadsUnlocked(t *testing.T) {
	// The lock flag is written last, so a save cut short by power loss
	// leaves the device reporting the previous (unlocked) state.
	device := store.NewFakeDevice()
	codec := store.NewCodec(device)
	act := servo.NewFakeActuator()
	ctrl, _ := logic.NewController(act, codec, 15)

	device.FailAfterWrites = 5 // timestamp (4 bytes) + minutes, then dies
	if _, err := ctrl.TryLock(1767355200, time.Now()); err == nil {
		t.Fatal("expected save error")
	}
	device.FailAfterWrites = 0

	// Next boot: the half-written record must not lock the box.
	act2 := servo.NewFakeActuator()
	ctrl2, _ := logic.NewController(act2, codec, 15)
	event, err := ctrl2.RecoverOnBoot(1767355300, time.Now())
	if err != nil {
		t.Fatalf("RecoverOnBoot: %v", err)
	}
	if event != nil && event.Type != logic.EventUnlocked {
		t.Fatalf("recovery event: got %+v", event)
	}
	if ctrl2.Locked() {
		t.Error("half-written save must not survive as locked")
	}
}
