package ams

import "fmt"

// AdsState is the closed enumeration of device run states.
type AdsState uint16

const (
	StateInvalid      AdsState = 0
	StateIdle         AdsState = 1
	StateReset        AdsState = 2
	StateInit         AdsState = 3
	StateStart        AdsState = 4
	StateRun          AdsState = 5
	StateStop         AdsState = 6
	StateSaveCFG      AdsState = 7
	StateLoadCFG      AdsState = 8
	StatePowerfailure AdsState = 9
	StatePowerGood    AdsState = 10
	StateError        AdsState = 11
	StateShutdown     AdsState = 12
	StateSuspend      AdsState = 13
	StateResume       AdsState = 14
	StateConfig       AdsState = 15
	StateReconfig     AdsState = 16
)

var adsStateNames = map[AdsState]string{
	StateInvalid:      "Invalid",
	StateIdle:         "Idle",
	StateReset:        "Reset",
	StateInit:         "Init",
	StateStart:        "Start",
	StateRun:          "Run",
	StateStop:         "Stop",
	StateSaveCFG:      "SaveCFG",
	StateLoadCFG:      "LoadCFG",
	StatePowerfailure: "Powerfailure",
	StatePowerGood:    "PowerGood",
	StateError:        "Error",
	StateShutdown:     "Shutdown",
	StateSuspend:      "Suspend",
	StateResume:       "Resume",
	StateConfig:       "Config",
	StateReconfig:     "Reconfig",
}

func (s AdsState) String() string {
	if name, ok := adsStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AdsState(%d)", uint16(s))
}

// ParseAdsState converts a raw u16 device state into AdsState, failing on any
// value outside the closed enumeration.
func ParseAdsState(v uint16) (AdsState, error) {
	if _, ok := adsStateNames[AdsState(v)]; !ok {
		return StateInvalid, fmt.Errorf("ams: unknown AdsState %d", v)
	}
	return AdsState(v), nil
}

// StateInfo reports a target's ADS run state and raw device state.
type StateInfo struct {
	AdsState    AdsState
	DeviceState uint16
}

// DeviceInfo is the decoded response of an ADS Read Device Info command.
type DeviceInfo struct {
	Major      uint8
	Minor      uint8
	Build      uint16
	DeviceName string
}
