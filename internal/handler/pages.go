package handler

// Страницы ошибок редиректа, отдаются как есть без шаблонизатора.

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>404 — Not Found</title></head>
<body style="font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh;margin:0;background:#0a0a0a;color:#fafafa">
  <div style="text-align:center">
    <h1 style="font-size:4rem;margin:0">404</h1>
    <p>This short link does not exist.</p>
    <a href="/" style="color:#60a5fa">Go Home</a>
  </div>
</body>
</html>`

const gonePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>410 — Gone</title></head>
<body style="font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh;margin:0;background:#0a0a0a;color:#fafafa">
  <div style="text-align:center">
    <h1 style="font-size:4rem;margin:0">410</h1>
    <p>This short link has expired.</p>
    <a href="/" style="color:#60a5fa">Go Home</a>
  </div>
</body>
</html>`
