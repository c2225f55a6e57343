package irc

// IRC replies.
const (
	rplWelcome  = "001" // <nick> :Welcome message
	rplYourhost = "002" // :Your host is...
	rplCreated  = "003" // :This server was created...
	rplMyinfo   = "004" // <servername> <version> <umodes> <chan modes> <chan modes with a parameter>
	rplIsupport = "005" // 1*13<TOKEN[=value]> :are supported by this server

	rplUmodeis       = "221" // <modes>
	rplChannelmodeis = "324" // <channel> <mode> <mode params>
	rplCreationtime  = "329" // <channel> <creationtime>
	rplNotopic       = "331" // <channel> :No topic is set
	rplTopic         = "332" // <channel> :<topic>
	rplTopicwhotime  = "333" // <channel> <nick> <setat>
	rplWhoreply      = "352" // <channel> <user> <host> <server> <nick> <H|G>[*][@|+] :<hopcount> <real name>
	rplEndofwho      = "315" // <name> :End of WHO list
	rplNamreply      = "353" // <=|*|@> <channel> :[[@|+]<nick> [[@|+]<nick> [...]]]
	rplEndofnames    = "366" // <channel> :End of NAMES list
	rplMotdstart     = "375" // :- <server> Message of the day -
	rplMotd          = "372" // :- <text>
	rplEndofmotd     = "376" // :End of MOTD command
)

// IRC errors.
const (
	errNosuchnick       = "401" // <nickname> :No such nick/channel
	errNosuchchannel    = "403" // <channel> :No such channel
	errCannotsendtochan = "404" // <channel> :Cannot send to channel
	errToomanychannels  = "405" // <channel> :You have joined too many channels
	errUnknowncommand   = "421" // <command> :Unknown command
	errNomotd           = "422" // :MOTD File is missing
	errNonicknamegiven  = "431" // :No nickname given
	errErroneusnickname = "432" // <nick> :Erroneous nickname
	errNicknameinuse    = "433" // <nick> :Nickname is already in use
	errNickcollision    = "436" // <nick> :Nickname collision KILL
	errNotonchannel     = "442" // <channel> :You're not on that channel
	errNeedmoreparams   = "461" // <command> :Not enough parameters
	errChannelisfull    = "471" // <channel> :Cannot join channel (+l)
	errInviteonlychan   = "473" // <channel> :Cannot join channel (+i)
	errBannedfromchan   = "474" // <channel> :Cannot join channel (+b)
	errBadchannelkey    = "475" // <channel> :Cannot join channel (+k)
	errChanoprivsneeded = "482" // <channel> :You're not channel operator
)

// isErrorReply reports whether a reply to a request means it failed: error
// numerics and IRCv3 standard replies of type FAIL.
func isErrorReply(command string) bool {
	if command == "FAIL" {
		return true
	}
	if len(command) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if command[i] < '0' || command[i] > '9' {
			return false
		}
	}
	return command[0] == '4' || command[0] == '5'
}
