// Package e2e provides end-to-end tests over a full help-center corpus.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/oshiete/internal/models"
)

// HelpArticle is one entry in the e2e corpus: a question, its answer, and the
// engagement signals the ranking boosts feed on.
type HelpArticle struct {
	ID         string
	Question   string
	Answer     string
	Category   string
	Tags       []string
	Views      int
	Helpful    int
	NotHelpful int
	Pinned     bool
}

// QueryTestCase defines a query and the article ID(s) that must appear in
// search results. At least one of ExpectedArticleIDs must be present in the
// hybrid (semantic + keyword) results.
type QueryTestCase struct {
	Query              string
	ExpectedArticleIDs []string
	Description        string
}

// Corpus holds articles and query test cases for the e2e tests.
type Corpus struct {
	Documents    []HelpArticle
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

// BuildCorpus returns a corpus of 100 help articles spanning every category a
// support site would carry, plus query test cases. Each article has a distinct
// wording so queries can assert the right one comes back.
func BuildCorpus() *Corpus {
	docs := buildArticles(100)
	cases := buildQueryTestCases(docs)
	return &Corpus{
		Documents:    docs,
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func buildArticles(n int) []HelpArticle {
	topics := []struct {
		question string
		answer   string
		category string
		tags     []string
	}{
		// account
		{"How do I reset my password?", "Open Settings, choose Security, and click Reset password. We email you a reset link that expires after one hour.", "account", []string{"password", "login"}},
		{"How do I change my email address?", "Go to Profile and click Change email. We send a confirmation link to the new address before the switch takes effect.", "account", []string{"email", "profile"}},
		{"How do I delete my account?", "Account deletion is permanent. Open Settings, choose Danger zone, and click Delete account; you have 14 days to undo before data is purged.", "account", []string{"deletion", "privacy"}},
		{"Why am I locked out of my account?", "Five failed sign-in attempts lock the account for 30 minutes. Wait out the timer or use the password reset link to unlock immediately.", "account", []string{"lockout", "login"}},
		{"How do I update my profile picture?", "Click your avatar in the top-right corner and choose Upload photo. Images up to 5 MB in PNG or JPEG work best.", "account", []string{"profile", "avatar"}},
		{"Can I change my username?", "Usernames can be changed once every 30 days from the Profile page. Old links to your profile keep working after a rename.", "account", []string{"username", "profile"}},
		{"How do I recover a deleted account?", "Within 14 days of deletion, sign in again and click Restore account. After that window the data is gone for good.", "account", []string{"recovery", "deletion"}},
		{"How do I set up a passkey?", "Under Settings, Security, choose Add passkey and follow your browser prompts. Passkeys replace passwords on supported devices.", "account", []string{"passkey", "security"}},
		{"How do I merge two accounts?", "Contact support with both email addresses. We merge billing history and content into the older account and close the other.", "account", []string{"merge", "support"}},
		{"What happens to my data when I cancel?", "Your workspace goes read-only for 90 days, then content is deleted. Export everything from Settings before the grace period ends.", "account", []string{"cancellation", "data"}},
		{"How do I sign in with Google?", "On the sign-in page choose Continue with Google. Accounts are matched by email address, so use the same one you registered with.", "account", []string{"sso", "login"}},
		{"How do I enable dark mode?", "Open Settings, Appearance, and pick Dark or System. The choice syncs across devices signed into the same account.", "account", []string{"appearance", "theme"}},
		// billing
		{"How do I download an invoice?", "Open Billing, pick the invoice from the history table, and click Download PDF. Invoices are also emailed to the billing contact each cycle.", "billing", []string{"invoices", "receipts"}},
		{"How do I update my credit card?", "Under Billing, choose Payment methods and click Replace card. The new card is charged starting with the next cycle.", "billing", []string{"payment", "card"}},
		{"Why was my payment declined?", "Most declines come from expired cards or bank fraud checks. Update the card under Payment methods or ask your bank to allow the charge.", "billing", []string{"payment", "declined"}},
		{"How do I get a refund?", "Annual plans qualify for a full refund within 30 days of purchase. Open a support ticket from Billing and include the invoice number.", "billing", []string{"refunds"}},
		{"How do I switch from monthly to annual billing?", "In Billing, choose Change plan and pick Annual. The unused portion of the current month is credited against the first annual invoice.", "billing", []string{"plans", "annual"}},
		{"Do you charge VAT?", "VAT is added for customers in the EU unless a valid VAT ID is on file. Add yours under Billing details to have invoices issued reverse-charge.", "billing", []string{"tax", "vat"}},
		{"How do I change the billing email?", "Under Billing details, edit the billing contact. All future invoices and receipts go to the new address; past ones stay available in-app.", "billing", []string{"invoices", "email"}},
		{"What payment methods do you accept?", "We accept major credit cards and, on annual plans, ACH and SEPA transfers. Purchase orders are available on the Enterprise tier.", "billing", []string{"payment"}},
		{"How do I apply a coupon code?", "Enter the code on the checkout page before confirming. Codes apply to the next invoice and do not stack with other discounts.", "billing", []string{"coupons", "discounts"}},
		{"When am I charged each month?", "Charges land on the monthly anniversary of the day you subscribed. You can shift the billing day from Billing, Change billing date.", "billing", []string{"payment", "schedule"}},
		{"How do I export my invoices as CSV?", "Open Billing history and click Export CSV. The file lists every invoice with its number, date, amount, and tax breakdown.", "billing", []string{"invoices", "export"}},
		{"What happens when my trial ends?", "The workspace drops to the free plan automatically; nothing is deleted. Upgrade any time from Billing to restore paid features.", "billing", []string{"trial", "plans"}},
		// teams
		{"How do I invite a teammate?", "Open Team, click Invite member, and enter their email. Invites expire after 7 days and can be resent from the pending list.", "teams", []string{"invites", "members"}},
		{"How do I remove a team member?", "In Team, open the member's row menu and choose Remove. Their content stays with the workspace; their seat frees up immediately.", "teams", []string{"members", "seats"}},
		{"What are the team roles?", "Owner, admin, and member. Admins manage people and billing; members create and edit content. Each workspace needs at least one owner.", "teams", []string{"roles", "permissions"}},
		{"How do I transfer workspace ownership?", "Owners can promote an admin to owner from Team, then demote themselves. Ownership transfer requires confirming by email.", "teams", []string{"ownership", "roles"}},
		{"How many seats does my plan include?", "Seat counts by plan are listed on the pricing page. Adding a member past the limit prompts an upgrade and prorates the difference.", "teams", []string{"seats", "plans"}},
		{"Can I create multiple workspaces?", "Yes, one account can own or belong to any number of workspaces. Switch between them from the workspace picker in the sidebar.", "teams", []string{"workspaces"}},
		{"How do I rename my workspace?", "Owners and admins can rename from Settings, General. The workspace URL slug changes too; old links redirect for 30 days.", "teams", []string{"workspaces", "settings"}},
		{"How do guest accounts work?", "Guests see only the projects they are invited to and do not take a paid seat on Business plans. Convert a guest to a member any time.", "teams", []string{"guests", "members"}},
		{"How do I resend an invite?", "Pending invites are listed in Team. Click Resend next to the email; the old invite link stops working once a new one is issued.", "teams", []string{"invites"}},
		{"Why can't my teammate see a project?", "Project access is per-group. Add them to the project's group, or ask an admin to change the project's visibility to workspace-wide.", "teams", []string{"permissions", "projects"}},
		{"How do I set a default role for new members?", "Under Team settings, pick the default role applied to accepted invites. Individual invites can override it.", "teams", []string{"roles", "settings"}},
		{"Can two people edit at the same time?", "Yes, editing is collaborative in real time. Cursors show who is where, and changes merge automatically without locking.", "teams", []string{"collaboration", "editing"}},
		// security
		{"How do I enable two-factor authentication?", "Open Settings, Security, and click Enable two-factor authentication. Scan the QR code with an authenticator app, then store the recovery codes somewhere safe.", "security", []string{"2fa", "authentication"}},
		{"Where are my recovery codes?", "Recovery codes are shown once when two-factor is enabled. Generate a fresh set from Settings, Security; the old set stops working immediately.", "security", []string{"2fa", "recovery"}},
		{"How do I see active sessions?", "Settings, Security lists every signed-in device with its location and last activity. Click Revoke to sign a device out remotely.", "security", []string{"sessions", "devices"}},
		{"Is my data encrypted?", "All traffic uses TLS 1.3 and stored data is encrypted at rest with AES-256. Encryption keys rotate automatically every 90 days.", "security", []string{"encryption", "compliance"}},
		{"How do I report a security vulnerability?", "Email security@ with details and reproduction steps. We run a coordinated disclosure program and respond within two business days.", "security", []string{"disclosure", "vulnerability"}},
		{"What is SSO and which plans have it?", "Single sign-on via SAML is available on the Business and Enterprise tiers. Configure your identity provider under Settings, Authentication.", "security", []string{"sso", "saml"}},
		{"How do I enforce two-factor for my team?", "Owners can require two-factor under Team settings, Security policy. Members without it are prompted to enroll at next sign-in.", "security", []string{"2fa", "policy"}},
		{"How long do sessions last?", "Browser sessions expire after 30 days of inactivity; API tokens stay valid until revoked. Admins can shorten the session window by policy.", "security", []string{"sessions", "policy"}},
		{"Do you have a SOC 2 report?", "Yes, a SOC 2 Type II report is available under NDA. Request it from the Trust page and we share it through our compliance portal.", "security", []string{"compliance", "soc2"}},
		{"How do I restrict sign-in to my company domain?", "Enterprise workspaces can allow-list email domains under Authentication. Sign-ups outside the list are rejected with a clear error.", "security", []string{"domains", "policy"}},
		{"What if I lose my phone with the authenticator app?", "Use a recovery code to sign in, then reset two-factor from Settings. Without recovery codes, support verifies identity manually, which takes longer.", "security", []string{"2fa", "recovery"}},
		{"Can I get an audit log of team activity?", "Business plans keep a 90-day audit log of sign-ins, permission changes, and exports under Team settings. Enterprise retains it for two years.", "security", []string{"audit", "compliance"}},
		// integrations
		{"How do I connect Slack?", "Open Integrations, choose Slack, and authorize the workspace. Pick a default channel for notifications; you can override it per project.", "integrations", []string{"slack", "notifications"}},
		{"How do I set up the GitHub integration?", "Under Integrations, connect GitHub and select repositories. Linked pull requests show their status next to the matching items.", "integrations", []string{"github", "development"}},
		{"Is there a Zapier integration?", "Yes, search for us in the Zapier directory. Triggers cover new items and comments; actions can create or update items.", "integrations", []string{"zapier", "automation"}},
		{"How do I embed content in Notion?", "Copy the share link and paste it into Notion; it unfurls into a live embed. Private items show a sign-in prompt instead.", "integrations", []string{"notion", "embeds"}},
		{"How do I disconnect an integration?", "Open Integrations, click the connected service, and choose Disconnect. Historic data stays; new events stop flowing immediately.", "integrations", []string{"settings"}},
		{"Why did my Slack notifications stop?", "Reinstalling the Slack app or renaming the channel breaks the hook. Reconnect from Integrations; pending events are not replayed.", "integrations", []string{"slack", "troubleshooting"}},
		{"Do you support webhooks?", "Outgoing webhooks fire on item and comment events. Add an endpoint under Integrations, Webhooks, and verify it with the signing secret.", "integrations", []string{"webhooks", "api"}},
		{"How do I import from Trello?", "Choose Import under Settings and pick Trello. Boards map to projects, lists to stages; attachments copy over in the background.", "integrations", []string{"import", "trello"}},
		{"Can I sync with Google Calendar?", "Items with due dates can publish to a Google Calendar feed. Enable the calendar sync under Integrations and subscribe to the feed URL.", "integrations", []string{"calendar", "google"}},
		{"How do I use the CLI?", "Install the CLI with a package manager, run login, and authenticate with a token from Settings, API. The CLI mirrors most web actions.", "integrations", []string{"cli", "api"}},
		// api
		{"How do I create an API token?", "Open Settings, API, and click Create token. Scope it to read or write, copy it once, and store it in your secrets manager.", "api", []string{"tokens", "authentication"}},
		{"What are the API rate limits?", "Requests are limited to 120 per minute per token. The response headers carry the remaining quota and the reset time.", "api", []string{"rate-limits"}},
		{"Is there a sandbox environment?", "Every workspace can spawn a sandbox copy under Settings, Developers. Sandboxes reset nightly and never send outbound notifications.", "api", []string{"sandbox", "testing"}},
		{"Where is the API documentation?", "The REST reference lives on the developers site, with examples per endpoint. An OpenAPI spec file is downloadable for client generation.", "api", []string{"documentation"}},
		{"How do I paginate API results?", "List endpoints return a next_cursor field. Pass it as the cursor query parameter on the following request until it comes back empty.", "api", []string{"pagination"}},
		{"Why am I getting 401 errors from the API?", "A 401 means the token is missing, revoked, or sent in the wrong header. Use Authorization Bearer with a current token.", "api", []string{"errors", "authentication"}},
		{"Do webhooks retry on failure?", "Failed webhook deliveries retry with exponential backoff for up to 24 hours. After that the event is dropped and logged.", "api", []string{"webhooks", "reliability"}},
		{"Can I filter items by updated time via the API?", "Pass updated_since with an ISO timestamp to list endpoints. Combine it with cursors to build incremental syncs.", "api", []string{"filtering", "sync"}},
		{"Is there an official Go client?", "Official clients exist for Go, Python, and TypeScript, generated from the OpenAPI spec and published on the usual registries.", "api", []string{"sdk", "clients"}},
		{"How do I rotate an API token without downtime?", "Create the replacement token first, deploy it, then revoke the old one. Both stay valid during the overlap, so rotation is seamless.", "api", []string{"tokens", "rotation"}},
		// notifications
		{"How do I turn off email notifications?", "Open Settings, Notifications, and switch the email channel off per event type. Mentions can be kept on while everything else is muted.", "notifications", []string{"email", "preferences"}},
		{"What is the digest email?", "The daily digest bundles activity you have not seen into one morning email. Switch it to weekly or off under Notifications.", "notifications", []string{"digest", "email"}},
		{"How do push notifications work on mobile?", "Enable push in the mobile app settings and at the OS level. Quiet hours silence pushes overnight in your local timezone.", "notifications", []string{"push", "mobile"}},
		{"Why am I not receiving notification emails?", "Check the spam folder and confirm your address under Profile. Corporate filters sometimes quarantine our sender domain; allow-list it.", "notifications", []string{"email", "troubleshooting"}},
		{"Can I get notified only for mentions?", "Yes, set every event type to off except Mentions under Notifications. Direct mentions then alert on all enabled channels.", "notifications", []string{"mentions", "preferences"}},
		{"How do I mute a single project?", "Open the project, click the bell icon, and choose Mute. Mentions still come through; everything else from that project stays silent.", "notifications", []string{"mute", "projects"}},
		{"Do notifications respect my timezone?", "Digest timing and quiet hours follow the timezone set in your Profile. Activity timestamps display in local time everywhere.", "notifications", []string{"timezone"}},
		{"How do I clear the unread badge?", "Open the inbox and click Mark all read. The badge counts inbox items, not emails, so clearing it is instant across devices.", "notifications", []string{"inbox", "badges"}},
		// mobile
		{"Is there an offline mode in the mobile app?", "Recently opened items are cached for offline reading. Edits made offline sync automatically once the connection returns.", "mobile", []string{"offline", "sync"}},
		{"How do I enable biometric unlock?", "In the mobile app settings, turn on Face ID or fingerprint unlock. The app locks after two minutes in the background.", "mobile", []string{"biometrics", "security"}},
		{"Why is the mobile app draining my battery?", "Background sync on poor connections is the usual cause. Lower the sync frequency in app settings or keep fewer projects pinned for offline.", "mobile", []string{"battery", "troubleshooting"}},
		{"How do I scan documents from my phone?", "Tap the camera icon in any item and choose Scan. Edges are detected automatically and the scan uploads as a searchable PDF.", "mobile", []string{"scanning", "camera"}},
		{"Does the app work on tablets?", "The app ships a split-view layout for iPad and Android tablets. Keyboard shortcuts match the desktop web app.", "mobile", []string{"tablets"}},
		{"How do I update the mobile app?", "Updates come through the App Store and Play Store. Enable automatic updates; versions older than six months stop syncing.", "mobile", []string{"updates"}},
		// data
		{"How do I export all my data?", "Open Settings, Export, and request a full export. You get an email link to a ZIP of JSON and attachments within an hour.", "data", []string{"export", "backup"}},
		{"Can I import a CSV file?", "Yes, Settings, Import accepts CSV with a header row. Map columns to fields in the preview step before confirming.", "data", []string{"import", "csv"}},
		{"Where is my data stored?", "Production data lives in the EU region by default; US and APAC regions are selectable on Enterprise at workspace creation.", "data", []string{"regions", "compliance"}},
		{"How long are deleted items kept?", "Deleted items sit in the trash for 30 days and are then purged. Admins can restore from trash during that window.", "data", []string{"trash", "retention"}},
		{"How do I restore a previous version of an item?", "Open the item's History panel and pick a version to preview or restore. Versions are kept for one year on paid plans.", "data", []string{"versions", "history"}},
		{"Is there a size limit on attachments?", "Attachments up to 100 MB each are accepted on paid plans, 10 MB on the free plan. Storage totals are listed in Settings.", "data", []string{"attachments", "limits"}},
		{"How do I bulk-delete items?", "Select items with the checkbox column, then choose Delete from the bulk action bar. Bulk deletions also go to the trash first.", "data", []string{"bulk", "deletion"}},
		{"Can I schedule automatic backups?", "Enterprise workspaces can schedule weekly exports to their own S3 bucket under Settings, Export. Each run is logged in the audit log.", "data", []string{"backup", "automation"}},
		// troubleshooting
		{"Why is the app slow?", "Large boards with thousands of items render slowly on older browsers. Enable compact mode and archive finished items to speed things up.", "troubleshooting", []string{"performance"}},
		{"The page shows a blank screen, what do I do?", "Hard-refresh with cache disabled, then update the browser. Extensions that block scripts are the usual culprit; try an incognito window.", "troubleshooting", []string{"errors", "browser"}},
		{"Why do I see a connection lost banner?", "The banner shows when the realtime socket drops. Edits queue locally and replay on reconnect; check proxies that buffer websockets.", "troubleshooting", []string{"connectivity", "websockets"}},
		{"How do I report a bug?", "Use Help, Report a bug, and include the diagnostic ID it shows. Screenshots and the time of day speed up the investigation.", "troubleshooting", []string{"bugs", "support"}},
		{"Why are my search results missing recent items?", "The search index refreshes within a minute of edits. If items stay missing, rebuild the index from Settings, Search, Reindex.", "troubleshooting", []string{"search", "indexing"}},
		{"What browsers are supported?", "The last two major versions of Chrome, Firefox, Safari, and Edge are supported. Older browsers get a read-only fallback.", "troubleshooting", []string{"browsers", "compatibility"}},
		{"Why does printing cut off content?", "Use the Print view from the item menu instead of the browser's print command. It paginates long content and strips the sidebar.", "troubleshooting", []string{"printing"}},
		{"How do I clear the app cache?", "Sign out, then use the browser's clear-site-data for our domain. On mobile, the app settings include a Clear cache button.", "troubleshooting", []string{"cache"}},
		{"Why can't I upload a file?", "Uploads fail when the file exceeds the plan limit or the network blocks multipart requests. The error banner names the exact cause.", "troubleshooting", []string{"uploads", "errors"}},
		{"Where do I check system status?", "The status page lists uptime and open incidents per region. Subscribe there for email or RSS updates during outages.", "troubleshooting", []string{"status", "incidents"}},
	}

	out := make([]HelpArticle, 0, n)
	for i := 0; i < n && i < len(topics); i++ {
		t := topics[i]
		out = append(out, HelpArticle{
			ID:         fmt.Sprintf("faq-%03d", i+1),
			Question:   t.question,
			Answer:     t.answer,
			Category:   t.category,
			Tags:       t.tags,
			Views:      (i * 137) % 4987,
			Helpful:    (i * 11) % 53,
			NotHelpful: (i * 3) % 11,
			Pinned:     i%20 == 3,
		})
	}
	// If we need more than len(topics), duplicate with different IDs
	for len(out) < n {
		i := len(out)
		t := topics[i%len(topics)]
		out = append(out, HelpArticle{
			ID:       fmt.Sprintf("faq-%03d", i+1),
			Question: fmt.Sprintf("%s (%d)", t.question, i+1),
			Answer:   t.answer,
			Category: t.category,
			Tags:     t.tags,
			Views:    (i * 137) % 4987,
		})
	}
	return out
}

func buildQueryTestCases(docs []HelpArticle) []QueryTestCase {
	if len(docs) == 0 {
		return nil
	}
	// Each query is a phrase lifted from one article, the way a user would type
	// it. Matching is case-insensitive since queries are usually lowercase.
	phrases := []string{
		"reset my password", "delete my account", "dark mode", "sign in with Google", "set up a passkey",
		"download an invoice", "update my credit card", "payment declined", "get a refund", "coupon code",
		"export my invoices as CSV", "invite a teammate", "remove a team member", "transfer workspace ownership", "guest accounts",
		"two-factor authentication", "recovery codes", "active sessions", "SOC 2", "audit log",
		"connect Slack", "GitHub integration", "import from Trello", "webhooks retry", "Zapier",
		"API rate limits", "create an API token", "paginate API results", "rotate an API token", "sandbox environment",
		"email notifications", "daily digest", "mute a single project", "unread badge",
		"offline mode", "biometric unlock", "scan documents",
		"export all my data", "restore a previous version", "size limit on attachments",
		"blank screen", "browsers are supported", "clear the app cache", "system status", "report a bug",
	}
	var cases []QueryTestCase
	used := make(map[string]bool)
	for _, p := range phrases {
		// Find the first article that contains this phrase
		for _, d := range docs {
			if containsPhrase(d, p) && !used[d.ID] {
				cases = append(cases, QueryTestCase{
					Query:              p,
					ExpectedArticleIDs: []string{d.ID},
					Description:        fmt.Sprintf("query %q should return article %s", p, d.ID),
				})
				used[d.ID] = true
				break
			}
		}
	}
	return cases
}

func containsPhrase(d HelpArticle, phrase string) bool {
	p := strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(d.Question), p) ||
		strings.Contains(strings.ToLower(d.Answer), p)
}

// ToArticles converts the corpus entries to models.Article for indexing.
func (c *Corpus) ToArticles() []*models.Article {
	out := make([]*models.Article, len(c.Documents))
	for i := range c.Documents {
		d := &c.Documents[i]
		out[i] = &models.Article{
			ID:              d.ID,
			Question:        d.Question,
			Answer:          d.Answer,
			Category:        d.Category,
			Tags:            d.Tags,
			ViewCount:       d.Views,
			HelpfulCount:    d.Helpful,
			NotHelpfulCount: d.NotHelpful,
			Pinned:          d.Pinned,
		}
	}
	return out
}
