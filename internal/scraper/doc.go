// Package scraper provides HTTP fetching and HTML parsing for federation
// fixture calendars.
//
// The scraper fetches a public calendar page and hands the parsed document
// to a site adapter that knows the page layout of one specific federation
// website. The FFCV adapter walks the calendar table positionally, carrying
// the current round label across rows and tolerating malformed rows.
package scraper
