// Package adsmux implements an asynchronous client for Beckhoff's ADS/AMS
// protocol over the TCP loopback router (port 48898): connect/handshake,
// the nine ADS commands, device notifications, and the bookkeeping needed
// to correlate concurrent requests with their responses on one socket.
package adsmux

import (
	"errors"
	"fmt"

	"github.com/mrpasztoradam/adsmux/ams"
)

// AdsError is the error type this package returns for ADS return codes and
// for local failures that map to one (I/O, timeout, handshake): an ADS
// return code plus a human-readable message. Other failures, such as
// ErrNotConnected, ErrClientClosed or a cancelled context, are returned
// as-is.
type AdsError struct {
	Code    AdsErrorCode
	Message string
}

func (e *AdsError) Error() string {
	return fmt.Sprintf("adsmux: 0x%x (%s) - %s", uint32(e.Code), e.Code, e.Message)
}

// NewAdsError builds an AdsError from a raw ADS return code, filling in the
// message from the code's own description.
func NewAdsError(code uint32) *AdsError {
	c := AdsErrorCode(code)
	return &AdsError{Code: c, Message: c.String()}
}

// wrapAdsError attaches additional context (e.g. which command failed) to
// an AdsError without losing the original code.
func wrapAdsError(code AdsErrorCode, format string, args ...any) *AdsError {
	return &AdsError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AdsErrorCode is the closed numeric ADS error space (Global, Router, ADS
// device, ADS client, real-time, and Winsock ranges), covering the return
// codes Beckhoff documents for ADS devices and the TwinCAT router.
type AdsErrorCode uint32

const (
	ErrNoError AdsErrorCode = 0

	// Global errors (0-30).
	ErrInternal              AdsErrorCode = 1
	ErrNoRTime               AdsErrorCode = 2
	ErrAllocLockedMem        AdsErrorCode = 3
	ErrInsertMailbox         AdsErrorCode = 4
	ErrWrongReceiveHMsg      AdsErrorCode = 5
	ErrTargetPortNotFound    AdsErrorCode = 6
	ErrTargetMachineNotFound AdsErrorCode = 7
	ErrUnknownCmdID          AdsErrorCode = 8
	ErrBadTaskID             AdsErrorCode = 9
	ErrNoIO                  AdsErrorCode = 10
	ErrUnknownAmsCmd         AdsErrorCode = 11
	ErrWin32Error            AdsErrorCode = 12
	ErrPortNotConnected      AdsErrorCode = 13
	ErrInvalidAmsLength      AdsErrorCode = 14
	ErrInvalidAmsNetID       AdsErrorCode = 15
	ErrLowInstLevel          AdsErrorCode = 16
	ErrNoDebugIntAvailable   AdsErrorCode = 17
	ErrPortDisabled          AdsErrorCode = 18
	ErrPortAlreadyConnected  AdsErrorCode = 19
	ErrAmsSyncW32Error       AdsErrorCode = 20
	ErrAmsSyncTimeout        AdsErrorCode = 21
	ErrAmsSyncAmsError       AdsErrorCode = 22
	ErrAmsSyncNoIndexInMap   AdsErrorCode = 23
	ErrInvalidAmsPort        AdsErrorCode = 24
	ErrNoMemory              AdsErrorCode = 25
	ErrTCPSend               AdsErrorCode = 26
	ErrHostUnreachable       AdsErrorCode = 27
	ErrInvalidAmsFragment    AdsErrorCode = 28
	ErrTLSSend               AdsErrorCode = 29
	ErrAccessDenied          AdsErrorCode = 30

	// Router errors (1280-1293).
	RouterErrNoLockedMemory  AdsErrorCode = 1280
	RouterErrResizeMemory    AdsErrorCode = 1281
	RouterErrMailboxFull     AdsErrorCode = 1282
	RouterErrDebugBoxFull    AdsErrorCode = 1283
	RouterErrUnknownPortType AdsErrorCode = 1284
	RouterErrNotInitialized  AdsErrorCode = 1285
	RouterErrPortAlreadyInUse AdsErrorCode = 1286
	RouterErrNotRegistered   AdsErrorCode = 1287
	RouterErrNoMoreQueues    AdsErrorCode = 1288
	RouterErrInvalidPort     AdsErrorCode = 1289
	RouterErrNotActivated    AdsErrorCode = 1290
	RouterErrFragmentBoxFull AdsErrorCode = 1291
	RouterErrFragmentTimeout AdsErrorCode = 1292
	RouterErrToBeRemoved     AdsErrorCode = 1293

	// ADS device errors (1792-1849).
	AdsErrDeviceError               AdsErrorCode = 1792
	AdsErrDeviceSrvNotSupp          AdsErrorCode = 1793
	AdsErrDeviceInvalidGrp          AdsErrorCode = 1794
	AdsErrDeviceInvalidOffset       AdsErrorCode = 1795
	AdsErrDeviceInvalidAccess       AdsErrorCode = 1796
	AdsErrDeviceInvalidSize         AdsErrorCode = 1797
	AdsErrDeviceInvalidData         AdsErrorCode = 1798
	AdsErrDeviceNotReady            AdsErrorCode = 1799
	AdsErrDeviceBusy                AdsErrorCode = 1800
	AdsErrDeviceInvalidContext      AdsErrorCode = 1801
	AdsErrDeviceNoMemory            AdsErrorCode = 1802
	AdsErrDeviceInvalidParm         AdsErrorCode = 1803
	AdsErrDeviceNotFound            AdsErrorCode = 1804
	AdsErrDeviceSyntax              AdsErrorCode = 1805
	AdsErrDeviceIncompatible        AdsErrorCode = 1806
	AdsErrDeviceExists              AdsErrorCode = 1807
	AdsErrDeviceSymbolNotFound      AdsErrorCode = 1808
	AdsErrDeviceSymbolVersionInvalid AdsErrorCode = 1809
	AdsErrDeviceInvalidState        AdsErrorCode = 1810
	AdsErrDeviceTransModeNotSupp    AdsErrorCode = 1811
	AdsErrDeviceNotifyHndInvalid    AdsErrorCode = 1812
	AdsErrDeviceClientUnknown       AdsErrorCode = 1813
	AdsErrDeviceNoMoreHdls          AdsErrorCode = 1814
	AdsErrDeviceInvalidWatchSize    AdsErrorCode = 1815
	AdsErrDeviceNotInit             AdsErrorCode = 1816
	AdsErrDeviceTimeout             AdsErrorCode = 1817
	AdsErrDeviceNoInterface         AdsErrorCode = 1818
	AdsErrDeviceInvalidInterface    AdsErrorCode = 1819
	AdsErrDeviceInvalidClsID        AdsErrorCode = 1820
	AdsErrDeviceInvalidObjID        AdsErrorCode = 1821
	AdsErrDevicePending             AdsErrorCode = 1822
	AdsErrDeviceAborted             AdsErrorCode = 1823
	AdsErrDeviceWarning             AdsErrorCode = 1824
	AdsErrDeviceInvalidArrayIdx     AdsErrorCode = 1825
	AdsErrDeviceSymbolNotActive     AdsErrorCode = 1826
	AdsErrDeviceAccessDenied        AdsErrorCode = 1827
	AdsErrDeviceLicenseNotFound     AdsErrorCode = 1828
	AdsErrDeviceLicenseExpired      AdsErrorCode = 1829
	AdsErrDeviceLicenseExceeded     AdsErrorCode = 1830
	AdsErrDeviceLicenseInvalid      AdsErrorCode = 1831
	AdsErrDeviceLicenseSystemID     AdsErrorCode = 1832
	AdsErrDeviceLicenseNoTimeLimit  AdsErrorCode = 1833
	AdsErrDeviceLicenseFutureIssue  AdsErrorCode = 1834
	AdsErrDeviceLicenseTimeTooLong  AdsErrorCode = 1835
	AdsErrDeviceException           AdsErrorCode = 1836
	AdsErrDeviceLicenseDuplicated   AdsErrorCode = 1837
	AdsErrDeviceSignatureInvalid    AdsErrorCode = 1838
	AdsErrDeviceCertificateInvalid  AdsErrorCode = 1839
	AdsErrDeviceLicenseOemNotFound  AdsErrorCode = 1840
	AdsErrDeviceLicenseRestricted   AdsErrorCode = 1841
	AdsErrDeviceLicenseDemoDenied   AdsErrorCode = 1842
	AdsErrDeviceInvalidFncID        AdsErrorCode = 1843
	AdsErrDeviceOutOfRange          AdsErrorCode = 1844
	AdsErrDeviceInvalidAlignment    AdsErrorCode = 1845
	AdsErrDeviceLicensePlatform     AdsErrorCode = 1846
	AdsErrDeviceForwardPL           AdsErrorCode = 1847
	AdsErrDeviceForwardDL           AdsErrorCode = 1848
	AdsErrDeviceForwardRT           AdsErrorCode = 1849

	// ADS client errors (1856-1878).
	AdsErrClientError            AdsErrorCode = 1856
	AdsErrClientInvalidParm      AdsErrorCode = 1857
	AdsErrClientListEmpty        AdsErrorCode = 1858
	AdsErrClientVarUsed          AdsErrorCode = 1859
	AdsErrClientDuplInvokeID     AdsErrorCode = 1860
	ADSERR_CLIENT_SYNCTIMEOUT    AdsErrorCode = 1861 // local timeout, never sent on the wire
	AdsErrClientW32Error         AdsErrorCode = 1862
	AdsErrClientTimeoutInvalid   AdsErrorCode = 1863
	AdsErrClientPortNotOpen      AdsErrorCode = 1864
	AdsErrClientNoAmsAddr        AdsErrorCode = 1865
	AdsErrClientSyncInternal     AdsErrorCode = 1872
	AdsErrClientAddHash          AdsErrorCode = 1873
	AdsErrClientRemoveHash       AdsErrorCode = 1874
	AdsErrClientNoMoreSym        AdsErrorCode = 1875
	AdsErrClientSyncResInvalid   AdsErrorCode = 1876
	AdsErrClientSyncPortLocked   AdsErrorCode = 1877
	AdsErrClientRequestCancelled AdsErrorCode = 1878

	// Real-time errors (4096+).
	RTErrInternal           AdsErrorCode = 4096
	RTErrBadTimerPeriods    AdsErrorCode = 4097
	RTErrInvalidTaskPtr     AdsErrorCode = 4098
	RTErrInvalidStackPtr    AdsErrorCode = 4099
	RTErrPrioExists         AdsErrorCode = 4100
	RTErrNoMoreTCB          AdsErrorCode = 4101
	RTErrNoMoreSemas        AdsErrorCode = 4102
	RTErrNoMoreQueues       AdsErrorCode = 4103
	RTErrExtIrqAlreadyDef   AdsErrorCode = 4109
	RTErrExtIrqNotDef       AdsErrorCode = 4110
	RTErrExtIrqInstallFailed AdsErrorCode = 4111
	RTErrIrqlNotLessOrEqual AdsErrorCode = 4112
	RTErrVMXNotSupported    AdsErrorCode = 4119
	RTErrVMXDisabled        AdsErrorCode = 4120
	RTErrVMXControlsMissing AdsErrorCode = 4121
	RTErrVMXEnableFails     AdsErrorCode = 4122

	// Winsock errors surfaced through the router (10060-10065).
	WSAETimedOut    AdsErrorCode = 10060
	WSAEConnRefused AdsErrorCode = 10061
	WSAEHostUnreach AdsErrorCode = 10065
)

var adsErrorNames = map[AdsErrorCode]string{
	ErrNoError: "NOERROR", ErrInternal: "INTERNAL", ErrNoRTime: "NORTIME",
	ErrAllocLockedMem: "ALLOCLOCKEDMEM", ErrInsertMailbox: "INSERTMAILBOX",
	ErrWrongReceiveHMsg: "WRONGRECEIVEHMSG", ErrTargetPortNotFound: "TARGETPORTNOTFOUND",
	ErrTargetMachineNotFound: "TARGETMACHINENOTFOUND", ErrUnknownCmdID: "UNKNOWNCMDID",
	ErrBadTaskID: "BADTASKID", ErrNoIO: "NOIO", ErrUnknownAmsCmd: "UNKNOWNAMSCMD",
	ErrWin32Error: "WIN32ERROR", ErrPortNotConnected: "PORTNOTCONNECTED",
	ErrInvalidAmsLength: "INVALIDAMSLENGTH", ErrInvalidAmsNetID: "INVALIDAMSNETID",
	ErrLowInstLevel: "LOWINSTLEVEL", ErrNoDebugIntAvailable: "NODEBUGINTAVAILABLE",
	ErrPortDisabled: "PORTDISABLED", ErrPortAlreadyConnected: "PORTALREADYCONNECTED",
	ErrAmsSyncW32Error: "AMSSYNC_W32ERROR", ErrAmsSyncTimeout: "AMSSYNC_TIMEOUT",
	ErrAmsSyncAmsError: "AMSSYNC_AMSERROR", ErrAmsSyncNoIndexInMap: "AMSSYNC_NOINDEXINMAP",
	ErrInvalidAmsPort: "INVALIDAMSPORT", ErrNoMemory: "NOMEMORY", ErrTCPSend: "TCPSEND",
	ErrHostUnreachable: "HOSTUNREACHABLE", ErrInvalidAmsFragment: "INVALIDAMSFRAGMENT",
	ErrTLSSend: "TLSSEND", ErrAccessDenied: "ACCESSDENIED",

	RouterErrNoLockedMemory: "ROUTERERR_NOLOCKEDMEMORY", RouterErrResizeMemory: "ROUTERERR_RESIZEMEMORY",
	RouterErrMailboxFull: "ROUTERERR_MAILBOXFULL", RouterErrDebugBoxFull: "ROUTERERR_DEBUGBOXFULL",
	RouterErrUnknownPortType: "ROUTERERR_UNKNOWNPORTTYPE", RouterErrNotInitialized: "ROUTERERR_NOTINITIALIZED",
	RouterErrPortAlreadyInUse: "ROUTERERR_PORTALREADYINUSE", RouterErrNotRegistered: "ROUTERERR_NOTREGISTERED",
	RouterErrNoMoreQueues: "ROUTERERR_NOMOREQUEUES", RouterErrInvalidPort: "ROUTERERR_INVALIDPORT",
	RouterErrNotActivated: "ROUTERERR_NOTACTIVATED", RouterErrFragmentBoxFull: "ROUTERERR_FRAGMENTBOXFULL",
	RouterErrFragmentTimeout: "ROUTERERR_FRAGMENTTIMEOUT", RouterErrToBeRemoved: "ROUTERERR_TOBEREMOVED",

	AdsErrDeviceError: "ADSERR_DEVICE_ERROR", AdsErrDeviceSrvNotSupp: "ADSERR_DEVICE_SRVNOTSUPP",
	AdsErrDeviceInvalidGrp: "ADSERR_DEVICE_INVALIDGRP", AdsErrDeviceInvalidOffset: "ADSERR_DEVICE_INVALIDOFFSET",
	AdsErrDeviceInvalidAccess: "ADSERR_DEVICE_INVALIDACCESS", AdsErrDeviceInvalidSize: "ADSERR_DEVICE_INVALIDSIZE",
	AdsErrDeviceInvalidData: "ADSERR_DEVICE_INVALIDDATA", AdsErrDeviceNotReady: "ADSERR_DEVICE_NOTREADY",
	AdsErrDeviceBusy: "ADSERR_DEVICE_BUSY", AdsErrDeviceInvalidContext: "ADSERR_DEVICE_INVALIDCONTEXT",
	AdsErrDeviceNoMemory: "ADSERR_DEVICE_NOMEMORY", AdsErrDeviceInvalidParm: "ADSERR_DEVICE_INVALIDPARM",
	AdsErrDeviceNotFound: "ADSERR_DEVICE_NOTFOUND", AdsErrDeviceSyntax: "ADSERR_DEVICE_SYNTAX",
	AdsErrDeviceIncompatible: "ADSERR_DEVICE_INCOMPATIBLE", AdsErrDeviceExists: "ADSERR_DEVICE_EXISTS",
	AdsErrDeviceSymbolNotFound: "ADSERR_DEVICE_SYMBOLNOTFOUND", AdsErrDeviceSymbolVersionInvalid: "ADSERR_DEVICE_SYMBOLVERSIONINVALID",
	AdsErrDeviceInvalidState: "ADSERR_DEVICE_INVALIDSTATE", AdsErrDeviceTransModeNotSupp: "ADSERR_DEVICE_TRANSMODENOTSUPP",
	AdsErrDeviceNotifyHndInvalid: "ADSERR_DEVICE_NOTIFYHNDINVALID", AdsErrDeviceClientUnknown: "ADSERR_DEVICE_CLIENTUNKNOWN",
	AdsErrDeviceNoMoreHdls: "ADSERR_DEVICE_NOMOREHDLS", AdsErrDeviceInvalidWatchSize: "ADSERR_DEVICE_INVALIDWATCHSIZE",
	AdsErrDeviceNotInit: "ADSERR_DEVICE_NOTINIT", AdsErrDeviceTimeout: "ADSERR_DEVICE_TIMEOUT",
	AdsErrDeviceNoInterface: "ADSERR_DEVICE_NOINTERFACE", AdsErrDeviceInvalidInterface: "ADSERR_DEVICE_INVALIDINTERFACE",
	AdsErrDeviceInvalidClsID: "ADSERR_DEVICE_INVALIDCLSID", AdsErrDeviceInvalidObjID: "ADSERR_DEVICE_INVALIDOBJID",
	AdsErrDevicePending: "ADSERR_DEVICE_PENDING", AdsErrDeviceAborted: "ADSERR_DEVICE_ABORTED",
	AdsErrDeviceWarning: "ADSERR_DEVICE_WARNING", AdsErrDeviceInvalidArrayIdx: "ADSERR_DEVICE_INVALIDARRAYIDX",
	AdsErrDeviceSymbolNotActive: "ADSERR_DEVICE_SYMBOLNOTACTIVE", AdsErrDeviceAccessDenied: "ADSERR_DEVICE_ACCESSDENIED",
	AdsErrDeviceLicenseNotFound: "ADSERR_DEVICE_LICENSENOTFOUND", AdsErrDeviceLicenseExpired: "ADSERR_DEVICE_LICENSEEXPIRED",
	AdsErrDeviceLicenseExceeded: "ADSERR_DEVICE_LICENSEEXCEEDED", AdsErrDeviceLicenseInvalid: "ADSERR_DEVICE_LICENSEINVALID",
	AdsErrDeviceLicenseSystemID: "ADSERR_DEVICE_LICENSESYSTEMID", AdsErrDeviceLicenseNoTimeLimit: "ADSERR_DEVICE_LICENSENOTIMELIMIT",
	AdsErrDeviceLicenseFutureIssue: "ADSERR_DEVICE_LICENSEFUTUREISSUE", AdsErrDeviceLicenseTimeTooLong: "ADSERR_DEVICE_LICENSETIMETOLONG",
	AdsErrDeviceException: "ADSERR_DEVICE_EXCEPTION", AdsErrDeviceLicenseDuplicated: "ADSERR_DEVICE_LICENSEDUPLICATED",
	AdsErrDeviceSignatureInvalid: "ADSERR_DEVICE_SIGNATUREINVALID", AdsErrDeviceCertificateInvalid: "ADSERR_DEVICE_CERTIFICATEINVALID",
	AdsErrDeviceLicenseOemNotFound: "ADSERR_DEVICE_LICENSEOEMNOTFOUND", AdsErrDeviceLicenseRestricted: "ADSERR_DEVICE_LICENSERESTRICTED",
	AdsErrDeviceLicenseDemoDenied: "ADSERR_DEVICE_LICENSEDEMODENIED", AdsErrDeviceInvalidFncID: "ADSERR_DEVICE_INVALIDFNCID",
	AdsErrDeviceOutOfRange: "ADSERR_DEVICE_OUTOFRANGE", AdsErrDeviceInvalidAlignment: "ADSERR_DEVICE_INVALIDALIGNMENT",
	AdsErrDeviceLicensePlatform: "ADSERR_DEVICE_LICENSEPLATFORM", AdsErrDeviceForwardPL: "ADSERR_DEVICE_FORWARD_PL",
	AdsErrDeviceForwardDL: "ADSERR_DEVICE_FORWARD_DL", AdsErrDeviceForwardRT: "ADSERR_DEVICE_FORWARD_RT",

	AdsErrClientError: "ADSERR_CLIENT_ERROR", AdsErrClientInvalidParm: "ADSERR_CLIENT_INVALIDPARM",
	AdsErrClientListEmpty: "ADSERR_CLIENT_LISTEMPTY", AdsErrClientVarUsed: "ADSERR_CLIENT_VARUSED",
	AdsErrClientDuplInvokeID: "ADSERR_CLIENT_DUPLINVOKEID", ADSERR_CLIENT_SYNCTIMEOUT: "ADSERR_CLIENT_SYNCTIMEOUT",
	AdsErrClientW32Error: "ADSERR_CLIENT_W32ERROR", AdsErrClientTimeoutInvalid: "ADSERR_CLIENT_TIMEOUTINVALID",
	AdsErrClientPortNotOpen: "ADSERR_CLIENT_PORTNOTOPEN", AdsErrClientNoAmsAddr: "ADSERR_CLIENT_NOAMSADDR",
	AdsErrClientSyncInternal: "ADSERR_CLIENT_SYNCINTERNAL", AdsErrClientAddHash: "ADSERR_CLIENT_ADDHASH",
	AdsErrClientRemoveHash: "ADSERR_CLIENT_REMOVEHASH", AdsErrClientNoMoreSym: "ADSERR_CLIENT_NOMORESYM",
	AdsErrClientSyncResInvalid: "ADSERR_CLIENT_SYNCRESINVALID", AdsErrClientSyncPortLocked: "ADSERR_CLIENT_SYNCPORTLOCKED",
	AdsErrClientRequestCancelled: "ADSERR_CLIENT_REQUESTCANCELLED",

	RTErrInternal: "RTERR_INTERNAL", RTErrBadTimerPeriods: "RTERR_BADTIMERPERIODS",
	RTErrInvalidTaskPtr: "RTERR_INVALIDTASKPTR", RTErrInvalidStackPtr: "RTERR_INVALIDSTACKPTR",
	RTErrPrioExists: "RTERR_PRIOEXISTS", RTErrNoMoreTCB: "RTERR_NOMORETCB",
	RTErrNoMoreSemas: "RTERR_NOMORESEMAS", RTErrNoMoreQueues: "RTERR_NOMOREQUEUES",
	RTErrExtIrqAlreadyDef: "RTERR_EXTIRQALREADYDEF", RTErrExtIrqNotDef: "RTERR_EXTIRQNOTDEF",
	RTErrExtIrqInstallFailed: "RTERR_EXTIRQINSTALLFAILED", RTErrIrqlNotLessOrEqual: "RTERR_IRQLNOTLESSOREQUAL",
	RTErrVMXNotSupported: "RTERR_VMXNOTSUPPORTED", RTErrVMXDisabled: "RTERR_VMXDISABLED",
	RTErrVMXControlsMissing: "RTERR_VMXCONTROLSMISSING", RTErrVMXEnableFails: "RTERR_VMXENABLEFAILS",

	WSAETimedOut: "WSAETIMEDOUT", WSAEConnRefused: "WSAECONNREFUSED", WSAEHostUnreach: "WSAEHOSTUNREACH",
}

func (c AdsErrorCode) String() string {
	if name, ok := adsErrorNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsAdsError reports whether err (or something it wraps) is an *AdsError
// with the given code.
func IsAdsError(err error, code AdsErrorCode) bool {
	var ae *AdsError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Code == code
}

// adsErrorFromAms maps a framing-layer sentinel error raised by package ams
// to its numeric ADS error code equivalent: a malformed NetId is
// ERR_INTERNAL, a malformed frame header is ERR_INVALIDAMSLENGTH. ams itself
// cannot make this translation (it has no error-code table and cannot
// import this package without creating an import cycle), so the mapping
// lives here, at the boundary where the sentinel is observed.
func adsErrorFromAms(err error) *AdsError {
	switch {
	case errors.Is(err, ams.ErrInvalidNetID):
		return wrapAdsError(ErrInternal, "%v", err)
	case errors.Is(err, ams.ErrInvalidAMSLength), errors.Is(err, ams.ErrShortFrame):
		return wrapAdsError(ErrInvalidAmsLength, "%v", err)
	default:
		return wrapAdsError(ErrInternal, "%v", err)
	}
}

// Sentinel framing/transport errors that aren't ADS return codes.
var (
	ErrClientClosed = errors.New("adsmux: client closed")
	ErrNotConnected = errors.New("adsmux: not connected")
)
