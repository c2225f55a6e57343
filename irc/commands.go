package irc

// Command names.
const (
	CmdPass         = "PASS"
	CmdNick         = "NICK"
	CmdUser         = "USER"
	CmdOper         = "OPER"
	CmdQuit         = "QUIT"
	CmdJoin         = "JOIN"
	CmdPart         = "PART"
	CmdMode         = "MODE"
	CmdTopic        = "TOPIC"
	CmdNames        = "NAMES"
	CmdList         = "LIST"
	CmdInvite       = "INVITE"
	CmdKick         = "KICK"
	CmdVersion      = "VERSION"
	CmdPrivmsg      = "PRIVMSG"
	CmdNotice       = "NOTICE"
	CmdWho          = "WHO"
	CmdWhois        = "WHOIS"
	CmdWhowas       = "WHOWAS"
	CmdKill         = "KILL"
	CmdPing         = "PING"
	CmdPong         = "PONG"
	CmdError        = "ERROR"
	CmdAway         = "AWAY"
	CmdRehash       = "REHASH"
	CmdIson         = "ISON"
	CmdCap          = "CAP"
	CmdTagmsg       = "TAGMSG"
	CmdBatch        = "BATCH"
	CmdChathistory  = "CHATHISTORY"
	CmdChghost      = "CHGHOST"
	CmdAck          = "ACK"
	CmdMonitor      = "MONITOR"
	CmdAuthenticate = "AUTHENTICATE"
	CmdSetname      = "SETNAME"
	CmdFail         = "FAIL"
	CmdWarn         = "WARN"
	CmdNote         = "NOTE"
	CmdMarkread     = "MARKREAD"
)
