package handlers

import "net/http"

// DashboardHandler serves the dashboard HTML page
func DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(dashboardHTML))
	}
}

var dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Management Dashboard</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        /* Fallback styles if Tailwind fails to load */
        body:not(.bg-slate-50) { font-family: system-ui, sans-serif; padding: 2rem; }
        body:not(.bg-slate-50) .container { max-width: 960px; margin: auto; }
    </style>
</head>
<body class="bg-slate-50 text-slate-800 min-h-screen">
    <div class="container mx-auto px-4 py-6 max-w-6xl">
        <header class="mb-6 flex justify-between items-center">
            <div>
                <h1 class="text-2xl font-bold">📊 Management Dashboard</h1>
                <p class="text-slate-500 text-sm">People · Payroll · Projects · CRM <span class="ml-2 text-xs">v{{VERSION}}</span></p>
            </div>
            <div id="session-box" class="flex items-center gap-3 text-sm"></div>
        </header>

        <!-- Login -->
        <section id="login-card" class="hidden bg-white rounded-xl shadow p-6 max-w-sm mx-auto">
            <h2 class="font-semibold mb-4">Sign in</h2>
            <form id="login-form" class="space-y-3">
                <input name="username" placeholder="Username" class="w-full border rounded px-3 py-2" autocomplete="username">
                <input name="password" type="password" placeholder="Password" class="w-full border rounded px-3 py-2" autocomplete="current-password">
                <button class="w-full bg-blue-600 text-white rounded py-2">Sign in</button>
                <p id="login-error" class="text-red-600 text-sm"></p>
            </form>
        </section>

        <main id="app" class="hidden space-y-6">
            <!-- Vendor connection -->
            <div id="zoho-card" class="bg-white rounded-xl shadow p-4 flex justify-between items-center">
                <div>
                    <h3 class="font-semibold">Zoho connection</h3>
                    <p id="zoho-status" class="text-sm text-slate-500">Checking...</p>
                </div>
                <div class="flex gap-2">
                    <a id="zoho-connect" href="/auth/zoho/login" class="hidden bg-blue-600 text-white rounded px-3 py-2 text-sm">Connect Zoho</a>
                    <button id="zoho-disconnect" class="hidden border rounded px-3 py-2 text-sm">Disconnect</button>
                </div>
            </div>

            <div id="kpis" class="grid grid-cols-1 sm:grid-cols-2 lg:grid-cols-4 gap-4"></div>

            <div class="bg-white rounded-xl shadow p-4">
                <div class="flex justify-between items-center mb-3">
                    <h3 class="font-semibold">Project portfolio</h3>
                    <input id="portfolio-search" placeholder="Search projects" class="border rounded px-3 py-1 text-sm">
                </div>
                <table class="w-full text-sm">
                    <thead>
                        <tr class="text-left text-slate-500 border-b">
                            <th class="py-2">ID</th><th>Name</th><th>Owner</th><th>Status</th><th class="text-right">Completion</th>
                        </tr>
                    </thead>
                    <tbody id="portfolio-body"></tbody>
                </table>
                <div class="flex justify-between mt-3 text-sm text-slate-500">
                    <span id="portfolio-info"></span>
                    <div class="flex gap-2">
                        <button id="portfolio-prev" class="border rounded px-2">‹</button>
                        <button id="portfolio-next" class="border rounded px-2">›</button>
                    </div>
                </div>
            </div>

            <div class="bg-white rounded-xl shadow p-4">
                <h3 class="font-semibold mb-3">Live analytics</h3>
                <pre id="analytics" class="text-xs bg-slate-100 rounded p-3 overflow-x-auto">Connect Zoho to load live data.</pre>
            </div>
        </main>
    </div>

    <script>
        let portfolioPage = 1;
        let canEdit = false;

        function esc(s) {
            return String(s ?? '').replace(/[&<>"']/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;',"'":'&#39;'}[c]));
        }

        async function api(path, opts = {}) {
            const res = await fetch(path, { credentials: 'same-origin', ...opts });
            const body = await res.json().catch(() => ({}));
            return { ok: res.ok, status: res.status, body };
        }

        async function loadMe() {
            const { ok, body } = await api('/api/me');
            document.getElementById('login-card').classList.toggle('hidden', ok);
            document.getElementById('app').classList.toggle('hidden', !ok);
            if (!ok) return;
            canEdit = !!(body.permissions && body.permissions.canEdit);
            document.getElementById('session-box').innerHTML =
                '<span>' + esc(body.username) + ' (' + esc(body.role) + ')</span>' +
                '<button id="logout" class="border rounded px-2 py-1">Sign out</button>';
            document.getElementById('logout').onclick = async () => {
                await api('/auth/logout', { method: 'POST' });
                location.reload();
            };
            await Promise.all([loadZoho(), loadKPIs(), loadPortfolio()]);
        }

        async function loadZoho() {
            const { body } = await api('/api/zoho/status');
            const connected = !!body.authenticated;
            document.getElementById('zoho-status').textContent = connected
                ? 'Connected' + (body.api_domain ? ' to ' + body.api_domain : '')
                : 'Not connected';
            document.getElementById('zoho-connect').classList.toggle('hidden', connected || !canEdit);
            document.getElementById('zoho-disconnect').classList.toggle('hidden', !connected || !canEdit);
            if (connected) loadAnalytics();
        }

        async function loadAnalytics() {
            const { ok, body } = await api('/api/analytics/overview');
            const el = document.getElementById('analytics');
            if (!ok) {
                el.textContent = body.error || 'Failed to load analytics';
                if (body.reauthRequired) loadZoho();
                return;
            }
            el.textContent = JSON.stringify(body.data, null, 2);
        }

        async function loadKPIs() {
            const { ok, body } = await api('/api/kpis/people');
            if (!ok) return;
            document.getElementById('kpis').innerHTML = body.data.map(c =>
                '<div class="bg-white rounded-xl shadow p-4">' +
                '<p class="text-sm text-slate-500">' + esc(c.title) + '</p>' +
                '<p class="text-2xl font-bold">' + esc(c.value) + '</p>' +
                '<p class="text-xs text-slate-400">' + esc(c.description) + '</p></div>').join('');
        }

        async function loadPortfolio() {
            const search = encodeURIComponent(document.getElementById('portfolio-search').value);
            const { ok, body } = await api('/api/portfolio?page=' + portfolioPage + '&search=' + search);
            if (!ok) return;
            document.getElementById('portfolio-body').innerHTML = body.items.map(p =>
                '<tr class="border-b"><td class="py-2">' + esc(p.id) + '</td><td>' + esc(p.name) + '</td><td>' +
                esc(p.owner) + '</td><td>' + esc(p.status) + '</td><td class="text-right">' + p.completion + '%</td></tr>').join('');
            document.getElementById('portfolio-info').textContent =
                'Page ' + body.page + ' of ' + Math.max(body.total_pages, 1) + ' (' + body.total + ' projects)';
            document.getElementById('portfolio-prev').disabled = body.page <= 1;
            document.getElementById('portfolio-next').disabled = body.page >= body.total_pages;
        }

        document.getElementById('login-form').onsubmit = async (e) => {
            e.preventDefault();
            const form = new FormData(e.target);
            const { ok, body } = await api('/auth/login', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ username: form.get('username'), password: form.get('password') }),
            });
            if (!ok) {
                document.getElementById('login-error').textContent = body.error || 'Login failed';
                return;
            }
            loadMe();
        };
        document.getElementById('zoho-disconnect').onclick = async () => {
            await api('/api/zoho/logout', { method: 'POST' });
            loadZoho();
        };
        document.getElementById('portfolio-search').oninput = () => { portfolioPage = 1; loadPortfolio(); };
        document.getElementById('portfolio-prev').onclick = () => { portfolioPage--; loadPortfolio(); };
        document.getElementById('portfolio-next').onclick = () => { portfolioPage++; loadPortfolio(); };

        loadMe();
    </script>
</body>
</html>`
