package hostfs

// Well-known host file locations.
const (
	EtcPasswdRel    = "etc/passwd"
	EtcShadowRel    = "etc/shadow"
	EtcGroupRel     = "etc/group"
	EtcLoginDefsRel = "etc/login.defs"
	EtcIssueRel     = "etc/issue"

	VarRunUtmpRel    = "var/run/utmp"
	VarLogWtmpRel    = "var/log/wtmp"
	VarLogBtmpRel    = "var/log/btmp"
	VarLogLastlogRel = "var/log/lastlog"

	MailDirRel = "var/mail"
)
