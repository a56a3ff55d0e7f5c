package sanitize

// trackingDomains lists host substrings of marketing/ESP tracking
// endpoints. Any image whose source contains one of these
// (case-insensitive) is discarded.
var trackingDomains = []string{
	"doubleclick.net",
	"google-analytics.com",
	"googleadservices.com",
	"awstrack.me",
	"mandrillapp.com",
	"list-manage.com",
	"mailtrack.io",
	"mixpanel.com",
	"segment.io",
	"liadm.com",
	"bluekai.com",
	"pippio.com",
	"rs6.net",
	"mailstat.us",
}

// trackingPatterns lists URL path fragments and keywords that mark an
// image URL as a tracking beacon rather than content.
var trackingPatterns = []string{
	"/track/open",
	"/trk/",
	"/open.php",
	"/open.aspx",
	"/wf/open",
	"/e/eo",
	"spacer.gif",
	"transparent.gif",
	"blank.gif",
	"beacon",
	"1x1.",
	"open_count",
}

// decoyAltValues are alt/title attribute values that identify an image
// as a spacer or tracking marker (case-insensitive, whole-value match).
var decoyAltValues = []string{
	"spacer",
	"pixel",
	"blank",
	"tracking",
	"open",
}

// cdnDefaultExtensions maps image CDN hosts that serve extensionless
// URLs to the file extension appended during Markdown conversion.
var cdnDefaultExtensions = map[string]string{
	"cdn.mcauto-images-production.sendgrid.net": ".jpg",
	"braze-images.com":                          ".jpg",
	"cdn.braze.eu":                              ".jpg",
	"mailimages.canva.com":                      ".jpg",
	"ci3.googleusercontent.com":                 ".jpg",
	"substackcdn.com":                           ".jpg",
	"images.ctfassets.net":                      ".png",
}

// imageExtensions are recognized image file suffixes; URLs already
// ending in one of these are left untouched by the CDN repair.
var imageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp",
}
