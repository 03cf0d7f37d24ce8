// Package profile carries the brand profiles that drive theme and tone
// selection for generated posts.
package profile

// CompanyInfo describes the brand behind a profile.
type CompanyInfo struct {
	Name      string
	Services  string
	Audience  string
	ValueProp string
}

// Profile is one content persona: who is speaking, what it posts about, and
// the default hashtag pool.
type Profile struct {
	Key      string
	Company  CompanyInfo
	Themes   []string
	Hashtags []string
}

// Formats are the post shapes a generation run rotates through.
var Formats = []string{
	"educational",
	"question",
	"story",
	"list",
	"myth-busting",
}

// BrandVoice is the shared tone guidance injected into every prompt.
var BrandVoice = struct {
	Tone  string
	Dos   string
	Donts string
}{
	Tone:  "Professional, approachable, and helpful",
	Dos:   "Short paragraphs, actionable tips, clear CTAs, human examples",
	Donts: "Overly salesy language, long dense paragraphs, vague claims",
}

// DefaultKey is the profile used when none is configured.
const DefaultKey = "valtrilabs"

var profiles = map[string]Profile{
	"valtrilabs": {
		Key: "valtrilabs",
		Company: CompanyInfo{
			Name:      "ValtriLabs",
			Services:  "Virtual assistant services: admin support, calendar management, lead qualification, research, and operations",
			Audience:  "Founders, solopreneurs, small business owners, and busy executives",
			ValueProp: "Reliable, skilled virtual assistants that let leaders focus on growth while we handle the day-to-day",
		},
		Themes: []string{
			"VA benefits",
			"productivity tips",
			"case studies",
			"client wins",
			"tooling & automation",
			"pricing transparency",
		},
		Hashtags: []string{
			"#VirtualAssistant",
			"#Productivity",
			"#SmallBusiness",
			"#Founders",
			"#RemoteWork",
		},
	},
	"arab_global_crypto": {
		Key: "arab_global_crypto",
		Company: CompanyInfo{
			Name:      "Arab Global Crypto Exchange",
			Services:  "Centralized exchange: Crypto trading, custody, KYC, liquidity, and institutional-grade security",
			Audience:  "Crypto traders, developers, institutional clients, product teams in fintech and blockchain",
			ValueProp: "Educational content on crypto trading, blockchain technology, and infrastructure for traders and builders",
		},
		Themes: []string{
			"Spot trading mechanics and order types",
			"Futures and perpetuals trading mechanics",
			"Options trading: Greeks, pricing, strategies",
			"Blockchain trilemma: scalability, security, decentralization",
			"PoW vs PoS: technical differences and validator economics",
			"Layer 1, Layer 2, Layer 0: scaling solutions deep dive",
			"Bitcoin halving: technical mechanics and historical effects",
			"Custody solutions: self-custody vs custodial wallets",
			"MPC wallets and institutional custody tech",
			"Smart contracts and EVM-compatible chains",
			"Tokenomics and token launch strategies",
			"KYC/AML technical implementation in exchanges",
			"DeFi protocols: liquidity pools, AMMs, market making",
			"Matching engines and order book mechanics",
			"Liquidation engines and risk management",
			"MEV, sandwich attacks, and front-running mitigation",
			"Market making bots and liquidity provision",
			"Blockchain interoperability and bridges",
			"Staking mechanisms and yield economics",
			"Cold storage vs hot wallets trade-offs",
			"Technical analysis for traders",
			"Blockchain nodes and infrastructure",
			"Mining economics and block rewards",
			"Oracle networks and price feeds",
			"Proof of Reserve and transparency",
		},
		Hashtags: []string{
			"#Crypto",
			"#Blockchain",
			"#NFT",
			"#DeFi",
			"#CeFi",
		},
	},
}

// Get returns the profile for key, falling back to the default profile when
// key is unknown.
func Get(key string) Profile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[DefaultKey]
}
