package sshconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups recognized options by concern.
type Category string

// Option categories.
const (
	CategoryConnection   Category = "connection"
	CategorySecurity     Category = "security"
	CategoryOptimization Category = "optimization"
	CategoryProxy        Category = "proxy"
	CategoryEnvironment  Category = "environment"
	CategoryMultiplexing Category = "multiplexing"
)

// optionSpec describes one recognized option: its canonical spelling, its
// category, the documented client default (empty when the tool has none),
// and a value validator.
type optionSpec struct {
	name     string
	category Category
	def      string
	validate func(value string) error
}

// optionRegistry maps lowercase option names to their specs. Option names
// are case-insensitive on input; the canonical spelling is used everywhere
// downstream.
var optionRegistry = buildRegistry(
	// Connection.
	spec("HostName", CategoryConnection, "", anyValue),
	spec("Port", CategoryConnection, "22", intRange(1, 65535)),
	spec("User", CategoryConnection, "", anyValue),
	spec("ConnectTimeout", CategoryConnection, "", intRange(0, 86400)),
	spec("ConnectionAttempts", CategoryConnection, "1", intRange(1, 100)),
	spec("BatchMode", CategoryConnection, "no", boolean()),
	spec("AddressFamily", CategoryConnection, "any", enum("any", "inet", "inet6")),
	spec("BindAddress", CategoryConnection, "", anyValue),
	spec("ServerAliveInterval", CategoryConnection, "0", intRange(0, 86400)),
	spec("ServerAliveCountMax", CategoryConnection, "3", intRange(1, 100)),
	spec("TCPKeepAlive", CategoryConnection, "yes", boolean()),

	// Security.
	spec("StrictHostKeyChecking", CategorySecurity, "ask", enum("yes", "no", "ask", "accept-new", "off")),
	spec("UserKnownHostsFile", CategorySecurity, "~/.ssh/known_hosts", anyValue),
	spec("GlobalKnownHostsFile", CategorySecurity, "/etc/ssh/ssh_known_hosts", anyValue),
	spec("PasswordAuthentication", CategorySecurity, "yes", boolean()),
	spec("PubkeyAuthentication", CategorySecurity, "yes", boolean()),
	spec("KbdInteractiveAuthentication", CategorySecurity, "yes", boolean()),
	spec("PreferredAuthentications", CategorySecurity, "", anyValue),
	spec("IdentityFile", CategorySecurity, "", anyValue),
	spec("IdentitiesOnly", CategorySecurity, "no", boolean()),
	spec("AddKeysToAgent", CategorySecurity, "no", enum("yes", "no", "ask", "confirm")),
	spec("HashKnownHosts", CategorySecurity, "no", boolean()),
	spec("VerifyHostKeyDNS", CategorySecurity, "no", enum("yes", "no", "ask")),
	spec("FingerprintHash", CategorySecurity, "sha256", enum("md5", "sha256")),

	// Optimization.
	spec("Compression", CategoryOptimization, "no", boolean()),
	spec("CompressionLevel", CategoryOptimization, "6", intRange(1, 9)),
	spec("Ciphers", CategoryOptimization, "", anyValue),
	spec("MACs", CategoryOptimization, "", anyValue),
	spec("KexAlgorithms", CategoryOptimization, "", anyValue),
	spec("HostKeyAlgorithms", CategoryOptimization, "", anyValue),
	spec("RekeyLimit", CategoryOptimization, "default none", anyValue),
	spec("IPQoS", CategoryOptimization, "", anyValue),

	// Proxy and forwarding.
	spec("ProxyCommand", CategoryProxy, "", anyValue),
	spec("ProxyJump", CategoryProxy, "", anyValue),
	spec("ForwardAgent", CategoryProxy, "no", boolean()),
	spec("ForwardX11", CategoryProxy, "no", boolean()),
	spec("ForwardX11Trusted", CategoryProxy, "no", boolean()),
	spec("DynamicForward", CategoryProxy, "", anyValue),
	spec("LocalForward", CategoryProxy, "", anyValue),
	spec("RemoteForward", CategoryProxy, "", anyValue),
	spec("ClearAllForwardings", CategoryProxy, "no", boolean()),
	spec("GatewayPorts", CategoryProxy, "no", boolean()),
	spec("ExitOnForwardFailure", CategoryProxy, "no", boolean()),

	// Environment.
	spec("SendEnv", CategoryEnvironment, "", anyValue),
	spec("SetEnv", CategoryEnvironment, "", anyValue),
	spec("RequestTTY", CategoryEnvironment, "auto", enum("no", "yes", "force", "auto")),
	spec("PermitLocalCommand", CategoryEnvironment, "no", boolean()),
	spec("LocalCommand", CategoryEnvironment, "", anyValue),
	spec("EscapeChar", CategoryEnvironment, "~", anyValue),
	spec("LogLevel", CategoryEnvironment, "INFO", enum(
		"QUIET", "FATAL", "ERROR", "INFO", "VERBOSE",
		"DEBUG", "DEBUG1", "DEBUG2", "DEBUG3")),

	// Multiplexing.
	spec("ControlMaster", CategoryMultiplexing, "no", enum("yes", "no", "ask", "auto", "autoask")),
	spec("ControlPath", CategoryMultiplexing, "", anyValue),
	spec("ControlPersist", CategoryMultiplexing, "no", anyValue),
)

func spec(name string, cat Category, def string, validate func(string) error) optionSpec {
	return optionSpec{name: name, category: cat, def: def, validate: validate}
}

func buildRegistry(specs ...optionSpec) map[string]optionSpec {
	m := make(map[string]optionSpec, len(specs))
	for _, s := range specs {
		m[strings.ToLower(s.name)] = s
	}
	return m
}

// lookupOption resolves a case-insensitive option name to its spec.
func lookupOption(name string) (optionSpec, bool) {
	s, ok := optionRegistry[strings.ToLower(name)]
	return s, ok
}

// DefaultValue returns the documented client default for a recognized
// option, and whether the option is recognized at all. Options with no
// documented default return ("", true).
func DefaultValue(name string) (string, bool) {
	s, ok := lookupOption(name)
	if !ok {
		return "", false
	}
	return s.def, true
}

// OptionCategory returns the category of a recognized option.
func OptionCategory(name string) (Category, bool) {
	s, ok := lookupOption(name)
	if !ok {
		return "", false
	}
	return s.category, true
}

// Validators.

func anyValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func boolean() func(string) error {
	return enum("yes", "no")
}

func enum(values ...string) func(string) error {
	return func(value string) error {
		for _, v := range values {
			if strings.EqualFold(value, v) {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(values, ", "), value)
	}
}

func intRange(min, max int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("must be an integer, got %q", value)
		}
		if n < min || n > max {
			return fmt.Errorf("must be in range %d-%d, got %d", min, max, n)
		}
		return nil
	}
}
