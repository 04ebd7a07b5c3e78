package policy

// DefaultPolicy returns Guardian's built-in pattern bundle: the destructive,
// privilege-escalation, secret, exfiltration, network, and supply-chain rules
// shipped by `guardian init` and used by `guardian test` when no policy file
// is present. Destructive, privilege-escalation, and exfiltration patterns
// default to critical severity, secrets default to high, and supply-chain
// tampering defaults to medium.
func DefaultPolicy() *Policy {
	return &Policy{
		Version: CurrentVersion,
		Mode:    ModeEnforce,
		Blocklist: Blocklist{
			Commands: []CommandPattern{
				{Pattern: `\brm\s+-rf\s+/(\s|$)`, Severity: SeverityCritical, Reason: "Forced file deletion"},
				{Pattern: `\brm\s+--no-preserve-root\b`, Severity: SeverityCritical, Reason: "Forced file deletion"},
				{Pattern: `\bdd\s+if=\S+\s+of=/dev/`, Severity: SeverityCritical, Reason: "Raw write to a block device"},
				{Pattern: `\bmkfs(\.\w+)?\s+`, Severity: SeverityCritical, Reason: "Filesystem creation on a live device"},
				{Pattern: `\bchmod\s+-R\s+777\s+/`, Severity: SeverityCritical, Reason: "Recursive world-writable permissions at root"},
				{Pattern: `>\s*/dev/sd[a-z]\b`, Severity: SeverityCritical, Reason: "Raw write to a block device"},
				{Pattern: `\bgit\s+push\s+.*--force\b`, Flags: "i", Severity: SeverityHigh, Reason: "Force push can overwrite shared history"},
				{Pattern: `\bgit\s+reset\s+--hard\b`, Flags: "i", Severity: SeverityMedium, Reason: "Hard reset discards uncommitted work"},
				{Pattern: `\bgit\s+clean\s+-[a-z]*f[a-z]*d[a-z]*x\b`, Flags: "i", Severity: SeverityHigh, Reason: "Clean removes untracked and ignored files"},
				{Pattern: `\bsudo\b`, Severity: SeverityCritical, Reason: "Privilege escalation"},
				{Pattern: `\bsu\s+-`, Severity: SeverityCritical, Reason: "Privilege escalation"},
				{Pattern: `\bchown\s+-R\s+\S+\s+/(\s|$)`, Severity: SeverityCritical, Reason: "Recursive ownership change at root"},
				{Pattern: `(curl|wget)\s+[^|;]*\|\s*(sh|bash|zsh)\b`, Flags: "i", Severity: SeverityCritical, Reason: "Piping a remote script directly into a shell"},
				{Pattern: `\$\(\s*(curl|wget)\b`, Flags: "i", Severity: SeverityCritical, Reason: "Command substitution fetching and executing remote content"},
				{Pattern: "`\\s*(curl|wget)", Flags: "i", Severity: SeverityCritical, Reason: "Backtick substitution fetching remote content"},
				{Pattern: `/dev/tcp/`, Severity: SeverityCritical, Reason: "Bash /dev/tcp reverse shell"},
				{Pattern: `\bnc\b.*-[a-z]*e[a-z]*\b`, Flags: "i", Severity: SeverityCritical, Reason: "netcat with shell execution"},
				{Pattern: `(npm|pip|pip3)\s+install\s+\S*git\+https?://`, Flags: "i", Severity: SeverityMedium, Reason: "Installing an unpinned package directly from a VCS URL"},
			},
			FilePatterns: []FilePattern{
				{Pattern: `(^|/)\.env(\.|$)`, Operations: []Operation{OpRead}, Severity: SeverityHigh, Reason: "Reading an environment/secrets file"},
				{Pattern: `(^|/)\.ssh/`, Operations: []Operation{OpRead, OpWrite, OpDelete}, Severity: SeverityCritical, Reason: "Touching SSH credentials"},
				{Pattern: `(^|/)\.aws/credentials$`, Operations: []Operation{OpRead, OpWrite}, Severity: SeverityCritical, Reason: "Touching cloud credentials"},
			},
			SecretPatterns: []SecretPattern{
				{Pattern: `AKIA[0-9A-Z]{16}`, Severity: SeverityHigh, Reason: "AWS access key"},
				{Pattern: `(?i)(api[_-]?key|secret[_-]?key|access[_-]?token)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,}`, Severity: SeverityHigh, Reason: "Hardcoded API key or token"},
				{Pattern: `-----BEGIN (RSA|EC|OPENSSH|DSA|PGP) PRIVATE KEY-----`, Severity: SeverityCritical, Reason: "Embedded private key"},
				{Pattern: `\bBearer\s+[A-Za-z0-9\-._~+/]+=*`, Severity: SeverityHigh, Reason: "Bearer token"},
				{Pattern: `eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, Severity: SeverityHigh, Reason: "JSON Web Token"},
			},
			Network: []NetworkPattern{
				{Pattern: `169\.254\.169\.254`, Severity: SeverityCritical, Reason: "Cloud instance metadata endpoint"},
				{Pattern: `metadata\.google\.internal`, Severity: SeverityCritical, Reason: "GCP metadata endpoint"},
				{Pattern: `(?i)169\.254\.170\.2`, Severity: SeverityCritical, Reason: "ECS task metadata endpoint"},
			},
		},
		Allowlist: Allowlist{},
		Scope: Scope{
			AllowedPaths:    []string{"{cwd}"},
			DeniedPaths:     []string{},
			AllowOutsideCWD: false,
		},
		Budget: Budget{Enabled: false},
		Audit: AuditConfig{
			Enabled:          true,
			Path:             ".guardian/audit.jsonl",
			Integrity:        "sha256-chain",
			IncludeToolInput: true,
			Rotation:         "daily",
			MaxFileSizeMB:    50,
		},
		KillSwitch: KillSwitch{
			Enabled:             true,
			OnBlocklistCritical: true,
			OnBudgetBreach:      true,
			ExitCode:            2,
		},
	}
}
