package engine

// navCSS maps the navigation document's ToC structure to PDF bookmarks.
// Prince's heading-inferred bookmark levels are suppressed in favor of the
// explicit nav outline; landmarks and page-list navs are hidden from the page
// flow, and the ToC nav is collapsed to zero height so it still feeds
// bookmark generation without rendering.
const navCSS = `@namespace epub url("http://www.idpf.org/2007/ops");

h1 { prince-bookmark-level: none; }
h2 { prince-bookmark-level: none; }
h3 { prince-bookmark-level: none; }
h4 { prince-bookmark-level: none; }
h5 { prince-bookmark-level: none; }
h6 { prince-bookmark-level: none; }

nav[epub|type="landmarks"],
nav[epub|type="page-list"] {
  display: none;
}

nav[epub|type="toc"] {
  max-height: 0;
  overflow: hidden;
}

nav[epub|type="toc"] a {
  prince-bookmark-target: attr(href);
}

nav[epub|type="toc"]
  :is([epub|type="list"], ol, ul)
  a {
  prince-bookmark-level: 1;
}
nav[epub|type="toc"]
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  a {
  prince-bookmark-level: 2;
}
nav[epub|type="toc"]
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  a {
  prince-bookmark-level: 3;
}
nav[epub|type="toc"]
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  :is([epub|type="list"], ol, ul)
  a {
  prince-bookmark-level: 4;
}
`

// themeCSS sets the default page geometry and hyphenation.
const themeCSS = `@namespace epub url("http://www.idpf.org/2007/ops");

@page {
  size: A4;
  margin: 48pt;
}

body {
  font-size: 12pt;
}

html {
  -prince-hyphenate-character: '\0000AD';
}

p {
  hyphens: auto;
}
`
