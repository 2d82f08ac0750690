package browser

import "fmt"

// bindingName is the function the page calls to hand messages to the
// session.
const bindingName = "__pagetraceEmit"

// forwardScript runs in every new top level document before its own
// scripts. It mirrors the DOM events the tracker listens to into
// messages for the session.
var forwardScript = fmt.Sprintf(`(() => {
  if (window !== window.top) return;
  const binding = %q;
  const maxText = 1000;

  const docState = () => ({
    href: location.href,
    pathname: location.pathname,
    search: location.search,
    hash: location.hash,
    title: document.title,
    referrer: document.referrer,
    hidden: document.hidden,
    width: window.innerWidth,
    height: window.innerHeight,
    userAgent: navigator.userAgent,
  });

  const snapshot = (n, withText) => {
    if (n === window) return {root: 'window'};
    if (n === document) return {root: 'document'};
    if (!n || !n.tagName) return {};
    const s = {tag: n.tagName, attrs: Array.from(n.attributes).map(a => [a.name, a.value])};
    if (withText) s.text = (n.textContent || '').trim().slice(0, maxText);
    return s;
  };

  const emit = (kind, extra) => {
    const fn = window[binding];
    if (typeof fn !== 'function') return;
    try {
      fn(JSON.stringify(Object.assign({kind: kind, doc: docState()}, extra || {})));
    } catch (e) {}
  };

  document.addEventListener('click', (e) => {
    emit('click', {
      target: snapshot(e.target, true),
      path: e.composedPath().map(n => snapshot(n, false)),
      mouse: {
        clientX: e.clientX, clientY: e.clientY, pageX: e.pageX, pageY: e.pageY,
        ctrlKey: e.ctrlKey, altKey: e.altKey, shiftKey: e.shiftKey, metaKey: e.metaKey,
      },
    });
  }, true);
  document.addEventListener('visibilitychange', () => emit('visibilitychange'));
  window.addEventListener('hashchange', (e) => emit('hashchange', {oldURL: e.oldURL, newURL: e.newURL}));
  window.addEventListener('popstate', (e) => {
    let state = null;
    try { state = JSON.parse(JSON.stringify(e.state)); } catch (err) {}
    emit('popstate', {state: state});
  });

  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', () => emit('ready'));
  } else {
    emit('ready');
  }
})();`, bindingName)

// projectScript prepends a row to the log container. The row is passed
// as a json literal and rendered through textContent only.
const projectScript = `((row) => {
  const c = document.getElementById(row.container);
  if (!c) return false;
  const placeholder = c.querySelector('.' + row.placeholderClass);
  if (placeholder) placeholder.remove();
  const entry = document.createElement('div');
  entry.className = 'log-entry';
  for (const [cls, text] of row.spans) {
    const span = document.createElement('span');
    span.className = cls;
    span.textContent = text;
    entry.appendChild(span);
  }
  c.insertBefore(entry, c.firstChild);
  while (c.children.length > row.max) c.removeChild(c.lastChild);
  return true;
})(%s)`

const resetScript = `((id, html) => {
  const c = document.getElementById(id);
  if (!c) return false;
  c.innerHTML = html;
  return true;
})(%s, %s)`
