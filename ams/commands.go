package ams

// AdsCommand is the closed set of ADS command ids carried in AMSHeader.CmdID.
type AdsCommand uint16

const (
	CmdInvalid                  AdsCommand = 0
	CmdReadDeviceInfo           AdsCommand = 1
	CmdRead                     AdsCommand = 2
	CmdWrite                    AdsCommand = 3
	CmdReadState                AdsCommand = 4
	CmdWriteControl             AdsCommand = 5
	CmdAddDeviceNotification    AdsCommand = 6
	CmdDeleteDeviceNotification AdsCommand = 7
	CmdDeviceNotification       AdsCommand = 8
	CmdReadWrite                AdsCommand = 9
)

// Valid reports whether c is one of the known command ids. Command 0
// (CmdInvalid) is deliberately not valid on the wire — it exists only as the
// zero value.
func (c AdsCommand) Valid() bool {
	switch c {
	case CmdReadDeviceInfo, CmdRead, CmdWrite, CmdReadState, CmdWriteControl,
		CmdAddDeviceNotification, CmdDeleteDeviceNotification,
		CmdDeviceNotification, CmdReadWrite:
		return true
	default:
		return false
	}
}

func (c AdsCommand) String() string {
	switch c {
	case CmdReadDeviceInfo:
		return "ReadDeviceInfo"
	case CmdRead:
		return "Read"
	case CmdWrite:
		return "Write"
	case CmdReadState:
		return "ReadState"
	case CmdWriteControl:
		return "WriteControl"
	case CmdAddDeviceNotification:
		return "AddDeviceNotification"
	case CmdDeleteDeviceNotification:
		return "DeleteDeviceNotification"
	case CmdDeviceNotification:
		return "DeviceNotification"
	case CmdReadWrite:
		return "ReadWrite"
	default:
		return "Invalid"
	}
}

// AdsTransMode determines when the server emits a notification sample.
type AdsTransMode uint32

const (
	TransModeServerCycle AdsTransMode = 3
	TransModeOnChange    AdsTransMode = 4
)

// NotificationAttrib describes the conditions under which a subscribed
// variable produces a notification sample.
type NotificationAttrib struct {
	Length    uint32 // cb_length: size of the monitored value, bytes
	TransMode AdsTransMode
	MaxDelay  uint32 // 100ns units
	CycleTime uint32 // 100ns units
}
