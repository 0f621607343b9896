// pdfconverter is a self-hosted document conversion service.
//
// Users upload DOCX or image files, the service converts them to PDF, charges
// the conversion against the user's free quota or balance and records an
// auditable transaction.
//
// Usage:
//
//	# Start the HTTP server
//	pdfconverter serve
//
//	# Apply database migrations and seed the pricing table
//	pdfconverter migrate
//
//	# Create an administrator account
//	pdfconverter createsuperuser --username admin --email admin@example.com
//
//	# Stage static assets into the serving directory
//	pdfconverter collectstatic --clear
//
//	# Probe the health endpoint (used by the container HEALTHCHECK)
//	pdfconverter healthcheck
package main

func main() {
	Execute()
}
