package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const contactNotifyTpl = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,Noto Sans,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-width:1px;border-style:solid;border-radius:.25rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1),0 2px 4px -2px rgb(0 0 0 / .1);margin:40px auto;padding:20px;width:550px;border-color:rgb(14,165,233);position:relative;overflow:hidden">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">『<strong>{{.SiteName}}</strong>』 收到了一条新留言</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000"><strong>{{.Name}}</strong>（{{.Email}}）：</p>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">主题：{{.Subject}}</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:12px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.Body}}</p></td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">本邮件为系统自动发送，请勿直接回复~<br />©{{year}} Copyright {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// ContactNotifyData is the data for contact-form notification emails.
type ContactNotifyData struct {
	SiteName string
	Name     string
	Email    string
	Subject  string
	Body     string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendContactNotify forwards a contact-form submission to the site owner.
func (s *Sender) SendContactNotify(to string, data ContactNotifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Inkwell"
	}
	html, err := renderTemplate(contactNotifyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] 有新的留言啦~", data.SiteName),
		HTML:    html,
	})
}
