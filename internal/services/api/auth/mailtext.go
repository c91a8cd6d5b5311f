package auth

import "fmt"

const (
	verifySubject = "Verify your Email"
	resetSubject  = "Reset Your Password"
)

func verifyBody(domain, token string) string {
	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", domain, token)
	return fmt.Sprintf(`
<h1>Verify your Email</h1>
<p>Please click this <a href="%s">link</a> to verify your email</p>
`, link)
}

func resetBody(domain, token string) string {
	link := fmt.Sprintf("http://%s/api/v1/auth/password-reset-confirm/%s", domain, token)
	return fmt.Sprintf(`
<h1>Reset Your Password</h1>
<p>Please click this <a href="%s">link</a> to Reset Your Password</p>
`, link)
}
